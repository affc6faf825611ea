package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewCustomerSet(t *testing.T) {
	t.Run("keeps the configured ids", func(t *testing.T) {
		set, err := NewCustomerSet([]int{3, 1, 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got, want := set.IDs(), []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
			t.Errorf("Got ids %v, wants %v", got, want)
		}
		if !set.Contains(2) {
			t.Errorf("Expected set to contain 2")
		}
		if set.Contains(6) {
			t.Errorf("Expected set not to contain 6")
		}
	})

	tests := map[string][]int{
		"empty":     nil,
		"zero":      {0, 1},
		"negative":  {-1},
		"duplicate": {1, 2, 1},
	}
	for name, ids := range tests {
		t.Run("rejects "+name, func(t *testing.T) {
			if _, err := NewCustomerSet(ids); err == nil {
				t.Errorf("Expected an error for ids %v", ids)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	t.Run("validation error matches ErrInvalidTransaction", func(t *testing.T) {
		err := NewValidationError("descricao", "is required")
		if !errors.Is(err, ErrInvalidTransaction) {
			t.Errorf("Expected %v to match ErrInvalidTransaction", err)
		}
	})

	t.Run("storage error matches ErrStorage and its cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NewStorageError("insert transaction", cause)
		if !errors.Is(err, ErrStorage) {
			t.Errorf("Expected %v to match ErrStorage", err)
		}
		if !errors.Is(err, cause) {
			t.Errorf("Expected %v to match its cause", err)
		}
		if errors.Is(err, ErrNotFound) {
			t.Errorf("Did not expect %v to match ErrNotFound", err)
		}
	})
}
