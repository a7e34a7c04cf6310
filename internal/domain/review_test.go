package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewWorkerStats(t *testing.T) {
	assert.Equal(t, WorkerStats{}, NewWorkerStats(0, 0))
	assert.Equal(t, WorkerStats{Average: 4, Total: 2}, NewWorkerStats(8, 2))
	assert.InDelta(t, 4.333, NewWorkerStats(13, 3).Average, 0.001)
}

func TestStarsInRange(t *testing.T) {
	assert.False(t, StarsInRange(0))
	assert.True(t, StarsInRange(1))
	assert.True(t, StarsInRange(5))
	assert.False(t, StarsInRange(6))
}

func TestCanReview(t *testing.T) {
	finished := Offer{ClienteID: 1, TrabajadorID: 2, Estado: OfferFinalized}

	assert.True(t, CanReview(finished, 1, false))
	assert.False(t, CanReview(finished, 1, true), "one review per offer")
	assert.False(t, CanReview(finished, 2, false), "workers cannot review themselves")
	assert.False(t, CanReview(finished, 0, false))

	accepted := finished
	accepted.Estado = OfferAccepted
	assert.False(t, CanReview(accepted, 1, false))
}

func TestCanSendMessage(t *testing.T) {
	ch := Chat{ClienteID: 1, TrabajadorID: 2, IsActive: true}

	assert.True(t, CanSendMessage(ch, 1))
	assert.True(t, CanSendMessage(ch, 2))
	assert.False(t, CanSendMessage(ch, 3))
	assert.False(t, CanSendMessage(ch, 0))

	ch.IsActive = false
	assert.False(t, CanSendMessage(ch, 1))
	assert.True(t, ch.IsParticipant(1), "closed chats stay readable")
}

func TestSkills(t *testing.T) {
	assert.Equal(t, []string{"plomería", "pintura"}, SplitSkills(" plomería, ,pintura "))
	assert.Equal(t, []string{}, SplitSkills(""))
	assert.Equal(t, "a,b", JoinSkills([]string{" a", "", "b "}))
}

func TestVerificationDocument_Blocks(t *testing.T) {
	assert.True(t, VerificationDocument{Estado: VerificationPending}.Blocks())
	assert.True(t, VerificationDocument{Estado: VerificationApproved}.Blocks())
	assert.False(t, VerificationDocument{Estado: VerificationRejected}.Blocks())
}

func TestPasswordReset_Usable(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	r := PasswordReset{ExpiresAt: now.Add(time.Hour)}

	assert.True(t, r.Usable(now))
	assert.False(t, r.Usable(now.Add(time.Hour)))

	used := now
	r.UsedAt = &used
	assert.False(t, r.Usable(now))
}
