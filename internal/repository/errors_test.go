package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		notFound error
		want     error
	}{
		{"nil", nil, ErrTaskNotFound, nil},
		{"record not found mapped", gorm.ErrRecordNotFound, ErrTaskNotFound, ErrTaskNotFound},
		{"record not found kept without mapping", gorm.ErrRecordNotFound, nil, gorm.ErrRecordNotFound},
		{"duplicate key", gorm.ErrDuplicatedKey, nil, ErrDuplicateName},
		{"foreign key", gorm.ErrForeignKeyViolated, ErrCategoryNotFound, ErrInvalidReference},
		{"other", other, ErrTaskNotFound, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err, tt.notFound)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}
