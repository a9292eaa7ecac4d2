package importer

import (
	"strings"

	"zone53/internal/model"
)

type setKey struct {
	fqdn string
	typ  string
}

// Aggregate folds normalized records into record sets keyed by
// (fqdn, type), preserving first-seen key order. Duplicate values are
// dropped; values of name-carrying types compare case-insensitively. The
// first record seen for a key establishes the set's TTL — later records
// with a different TTL do not change it.
func Aggregate(records []model.Record) []model.RecordSet {
	var sets []model.RecordSet
	index := make(map[setKey]int)

	for _, rec := range records {
		key := setKey{fqdn: rec.FQDN, typ: rec.Type}
		i, ok := index[key]
		if !ok {
			index[key] = len(sets)
			sets = append(sets, model.RecordSet{
				FQDN:   rec.FQDN,
				Type:   rec.Type,
				TTL:    rec.TTL,
				Values: []string{rec.Value},
			})
			continue
		}
		if !containsValue(sets[i].Values, rec.Value, rec.Type) {
			sets[i].Values = append(sets[i].Values, rec.Value)
		}
	}
	return sets
}

func containsValue(values []string, v, typ string) bool {
	nameTyped := false
	switch typ {
	case model.TypeCNAME, model.TypeNS, model.TypePTR, model.TypeMX, model.TypeSRV:
		nameTyped = true
	}
	for _, existing := range values {
		if existing == v {
			return true
		}
		if nameTyped && strings.EqualFold(existing, v) {
			return true
		}
	}
	return false
}
