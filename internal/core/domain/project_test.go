package domain_test

import (
	"testing"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressForStatus(t *testing.T) {
	want := map[domain.ProjectStatus]int{
		domain.ProjectPreparation: 10,
		domain.ProjectConfirmed:   25,
		domain.ProjectEditing:     70,
		domain.ProjectPrinting:    90,
		domain.ProjectShipped:     95,
		domain.ProjectCompleted:   100,
		domain.ProjectCancelled:   0,
		domain.ProjectPending:     0,
	}
	for status, progress := range want {
		assert.Equal(t, progress, domain.ProgressForStatus(status), string(status))
	}
}

func TestProject_MoveTo(t *testing.T) {
	t.Run("cancel always zeroes progress", func(t *testing.T) {
		p := domain.Project{Status: domain.ProjectCompleted, Progress: 100}
		require.NoError(t, p.MoveTo(domain.ProjectCancelled, "", ""))
		assert.Equal(t, 0, p.Progress)
		assert.Equal(t, domain.ProjectCancelled, p.Status)
	})

	t.Run("sub-status kept on editing", func(t *testing.T) {
		p := domain.Project{Status: domain.ProjectConfirmed}
		require.NoError(t, p.MoveTo(domain.ProjectEditing, "Editing Video", ""))
		assert.Equal(t, "Editing Video", p.SubStatus)
		assert.Equal(t, 70, p.Progress)
	})

	t.Run("sub-status cleared when leaving editing", func(t *testing.T) {
		p := domain.Project{Status: domain.ProjectEditing, SubStatus: "Editing Album"}
		require.NoError(t, p.MoveTo(domain.ProjectCompleted, "", ""))
		assert.Empty(t, p.SubStatus)
	})

	t.Run("shipping details cleared when leaving shipped", func(t *testing.T) {
		p := domain.Project{Status: domain.ProjectShipped, ShippingDetails: "JNE 12345"}
		require.NoError(t, p.MoveTo(domain.ProjectPrinting, "Cetak Album", ""))
		assert.Empty(t, p.ShippingDetails)
		assert.Equal(t, "Cetak Album", p.SubStatus)
	})

	t.Run("backward move allowed", func(t *testing.T) {
		p := domain.Project{Status: domain.ProjectCompleted, Progress: 100}
		require.NoError(t, p.MoveTo(domain.ProjectPreparation, "", ""))
		assert.Equal(t, 10, p.Progress)
	})

	t.Run("rejects sub-status on a status without options", func(t *testing.T) {
		p := domain.Project{Status: domain.ProjectConfirmed, Progress: 25}
		assert.Error(t, p.MoveTo(domain.ProjectShipped, "Editing Video", ""))
		assert.Equal(t, domain.ProjectConfirmed, p.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		p := domain.Project{}
		assert.Error(t, p.MoveTo("ARCHIVED", "", ""))
	})
}

func TestProject_RemainingBalance(t *testing.T) {
	p := domain.Project{TotalCost: decimal.NewFromInt(100), AmountPaid: decimal.NewFromInt(40)}
	assert.True(t, p.RemainingBalance().Equal(decimal.NewFromInt(60)))

	p.AmountPaid = decimal.NewFromInt(150)
	assert.True(t, p.RemainingBalance().IsZero())
}
