package list_blocked_intervals

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()

	req, err := ToServiceRequest(tenantID, userID, "1741600800000", "1741687200000")
	require.NoError(t, err)
	assert.Equal(t, tenantID, req.TenantID)
	assert.Equal(t, userID, req.UserID)
	assert.Equal(t, int64(1741600800000), req.FromMs)
	assert.Equal(t, int64(1741687200000), req.ToMs)

	for _, tc := range [][2]string{{"", "1"}, {"1", ""}, {"abc", "1"}, {"1", "2025-03-10"}} {
		_, err := ToServiceRequest(tenantID, userID, tc[0], tc[1])
		assert.Error(t, err, "from=%q to=%q", tc[0], tc[1])
	}
}
