package validation

import (
	"errors"
	"testing"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=150,username"`
}

type line struct {
	ID     int64 `json:"id" validate:"required"`
	Amount int   `json:"amount" validate:"gte=1"`
}

type payload struct {
	Lines []line `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
}

func TestStructValid(t *testing.T) {
	if err := Struct(signup{Email: "cook@example.com", Username: "cook.42"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestStructForbiddenUsername(t *testing.T) {
	for _, name := range []string{"me", "ME", "bad name", "кирилл"} {
		err := Struct(signup{Email: "cook@example.com", Username: name})

		var verrs Errors
		if !errors.As(err, &verrs) {
			t.Fatalf("%q: expected Errors, got %v", name, err)
		}
		if _, ok := verrs["username"]; !ok {
			t.Errorf("%q: expected username error, got %v", name, verrs)
		}
	}
}

func TestStructNestedFieldNames(t *testing.T) {
	err := Struct(payload{Lines: []line{{ID: 1, Amount: 0}}})

	var verrs Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected Errors, got %v", err)
	}
	if _, ok := verrs["ingredients[0].amount"]; !ok {
		t.Errorf("expected ingredients[0].amount error, got %v", verrs)
	}
}

func TestStructDuplicates(t *testing.T) {
	err := Struct(payload{Lines: []line{{ID: 1, Amount: 1}, {ID: 1, Amount: 2}}})

	var verrs Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected Errors, got %v", err)
	}
	if verrs["ingredients"] != "must not contain duplicates" {
		t.Errorf("unexpected errors %v", verrs)
	}
}
