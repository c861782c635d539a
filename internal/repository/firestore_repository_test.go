package repository

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewFirestoreImageRepository_RequiresClient(t *testing.T) {
	repo, err := NewFirestoreImageRepository(nil, "")
	assert.Nil(t, repo)
	assert.Error(t, err)
}

func TestImageDoc_FieldNames(t *testing.T) {
	want := map[string]reflect.Type{
		"image_url":  reflect.TypeOf(""),
		"prompt":     reflect.TypeOf(""),
		"user_id":    reflect.TypeOf(""),
		"created_at": reflect.TypeOf(time.Time{}),
	}

	got := map[string]reflect.Type{}
	typ := reflect.TypeOf(imageDoc{})
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		got[f.Tag.Get("firestore")] = f.Type
	}

	assert.Equal(t, want, got)
}
