package attendance

import (
	"testing"

	"github.com/kantorkita/presensi-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTriggerRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := GenerateTriggerRequest{Date: "2024-06-10"}
	assert.NoError(t, valid.Validate())

	validRange := GenerateTriggerRequest{StartDate: "2024-06-10", EndDate: "2024-06-14"}
	assert.NoError(t, validRange.Validate())

	// Single date and range are mutually exclusive.
	both := GenerateTriggerRequest{Date: "2024-06-10", StartDate: "2024-06-10", EndDate: "2024-06-14"}
	err := both.Validate()
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "date")

	neither := GenerateTriggerRequest{}
	assert.Error(t, neither.Validate())

	badFormat := GenerateTriggerRequest{Date: "10-06-2024"}
	assert.Error(t, badFormat.Validate())

	inverted := GenerateTriggerRequest{StartDate: "2024-06-14", EndDate: "2024-06-10"}
	assert.Error(t, inverted.Validate())
}

func TestReconcileTriggerRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := ReconcileTriggerRequest{Date: "2024-06-10"}
	assert.NoError(t, valid.Validate())

	missing := ReconcileTriggerRequest{}
	assert.Error(t, missing.Validate())
}

func TestLeaveRevokedRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := LeaveRevokedRequest{LeaveID: "leave-1"}
	assert.NoError(t, valid.Validate())

	missing := LeaveRevokedRequest{}
	assert.Error(t, missing.Validate())
}
