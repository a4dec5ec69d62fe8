package compare

import (
	"errors"
	"fmt"
	"testing"

	"product-intel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idList(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i+1)
	}
	return ids
}

func TestValidateRequest_SizeBounds(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		wantCode string
	}{
		{name: "zero products", count: 0, wantCode: model.ErrCodeInvalidComparisonSize},
		{name: "one product", count: 1, wantCode: model.ErrCodeInvalidComparisonSize},
		{name: "two products ok", count: 2},
		{name: "ten products ok", count: 10},
		{name: "eleven products", count: 11, wantCode: model.ErrCodeInvalidComparisonSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(Request{ProductIDs: idList(tt.count)})
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var de *model.DomainError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.wantCode, de.Code)
		})
	}
}

func TestValidateRequest_Duplicates(t *testing.T) {
	err := ValidateRequest(Request{ProductIDs: []string{"p1", "p2", "p1"}})
	require.Error(t, err)

	var de *model.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, model.ErrCodeDuplicateProducts, de.Code)
}
