package domain

import (
	"errors"
	"fmt"
	"sort"
)

// CustomerSet is the closed set of provisioned customer identifiers. It is
// built once at startup and only read afterwards, so it is safe for
// concurrent use.
type CustomerSet struct {
	ids map[int]struct{}
}

func NewCustomerSet(ids []int) (*CustomerSet, error) {
	if len(ids) == 0 {
		return nil, errors.New("customer set must not be empty")
	}

	set := &CustomerSet{ids: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("customer id %d must be positive", id)
		}
		if _, ok := set.ids[id]; ok {
			return nil, fmt.Errorf("customer id %d is duplicated", id)
		}
		set.ids[id] = struct{}{}
	}

	return set, nil
}

func (s *CustomerSet) Contains(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the identifiers in ascending order.
func (s *CustomerSet) IDs() []int {
	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *CustomerSet) Len() int {
	return len(s.ids)
}
