package repository

import "errors"

var (
	// ErrPublicationUnavailable: the publication is missing or no longer active.
	ErrPublicationUnavailable = errors.New("publication unavailable")
	ErrOfferLimitReached      = errors.New("offer limit reached")
	// ErrStaleOfferState: the offer left the expected state before the
	// transition committed.
	ErrStaleOfferState   = errors.New("offer state changed concurrently")
	ErrPublicationClosed = errors.New("publication already closed")
	ErrHasAcceptedOffer  = errors.New("publication has an accepted offer")
	ErrDocumentPending   = errors.New("verification document already pending or approved")
)
