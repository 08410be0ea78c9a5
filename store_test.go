package dyn

import (
	"errors"
	"testing"

	"github.com/signadot/go-dyn/store"
)

type failingStore struct{}

func (failingStore) Get(string) (any, bool, error) { return nil, false, errors.New("offline") }

func TestStore(t *testing.T) {
	s := store.NewMemory()
	if err := SetInStore(s, "user", Map("name", "Ann", "tags", Array("a"))); err != nil {
		t.Fatal(err)
	}
	u, err := FromStore(s, "user")
	if err != nil {
		t.Fatal(err)
	}
	name, err := Extract[string](u.Key("name"))
	if err != nil || name != "Ann" {
		t.Errorf("name: %q, %v", name, err)
	}
	_, err = Extract[int](u.Key("age"))
	if !errors.Is(err, ErrMissingValue) || errPath(err) != "user.age" {
		t.Errorf("expected missing value at user.age, got %v", err)
	}

	missing, err := FromStore(s, "nope")
	if err != nil {
		t.Fatal(err)
	}
	_, err = Extract[string](missing)
	if !errors.Is(err, ErrMissingValue) || errPath(err) != "nope" {
		t.Errorf("expected missing value at nope, got %v", err)
	}

	err = UpdateInStore(s, "user", func(a Accessor) Accessor {
		return a.Set("age", 41).SetAt("tags[0]", "b")
	})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := FromStore(s, "user")
	if err != nil {
		t.Fatal(err)
	}
	if got := wire(t, updated); got != `{"name":"Ann","tags":["b"],"age":41}` {
		t.Errorf("update: %s", got)
	}

	if err := SetInStore(s, "user", Accessor{}); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get("user"); ok {
		t.Errorf("expected user to be removed")
	}
}

func TestStoreErrors(t *testing.T) {
	_, err := FromStore(failingStore{}, "k")
	if !errors.Is(err, ErrKnownFailure) || errPath(err) != "k" {
		t.Errorf("get: %v", err)
	}
	s := store.NewMemory()
	err = SetInStore(s, "k", Array(1).Index(3))
	if !errors.Is(err, ErrIndexOutOfBounds) {
		t.Errorf("set: %v", err)
	}
}
