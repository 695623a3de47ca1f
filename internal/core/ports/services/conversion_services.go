package services

import (
	"context"

	"github.com/SscSPs/studio_ops_app/internal/core/conversion"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/SscSPs/studio_ops_app/internal/dto"
)

// ConversionSvcFacade turns leads into clients with a booked project.
type ConversionSvcFacade interface {
	// ConvertLead converts an existing lead. Nothing is written when validation fails.
	ConvertLead(ctx context.Context, leadID string, req dto.ConvertLeadRequest, userID string) (*conversion.Result, error)

	// SubmitBooking creates a lead from the public booking form and converts it in the same write.
	SubmitBooking(ctx context.Context, req dto.PublicBookingRequest) (*conversion.Result, error)
}

// EventRecorder receives business events worth counting.
type EventRecorder interface {
	ConversionCompleted(source string)
	TransactionRecorded(t domain.TransactionType)
}
