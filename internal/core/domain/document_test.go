package domain_test

import (
	"testing"

	"github.com/hrplane/approval_flow_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestDocumentStatusIsTerminal(t *testing.T) {
	assert.False(t, domain.DocInProgress.IsTerminal())
	assert.True(t, domain.DocApproved.IsTerminal())
	assert.True(t, domain.DocRejected.IsTerminal())
}

func TestLineStatusIsSettled(t *testing.T) {
	assert.False(t, domain.LinePending.IsSettled())
	assert.False(t, domain.LineAwaiting.IsSettled())
	assert.True(t, domain.LineApproved.IsSettled())
	assert.True(t, domain.LineRejected.IsSettled())
}

func TestLineAtOrder(t *testing.T) {
	lines := []domain.ApprovalLine{
		{LineID: "l2", ApprovalOrder: 2},
		{LineID: "l1", ApprovalOrder: 1},
	}

	got := domain.LineAtOrder(lines, 1)
	if assert.NotNil(t, got) {
		assert.Equal(t, "l1", got.LineID)
	}
	assert.Nil(t, domain.LineAtOrder(lines, 3))
	assert.Nil(t, domain.LineAtOrder(nil, 1))
}
