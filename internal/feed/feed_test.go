package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastocerto/internal/models"
)

func snapshot(descs ...string) []models.Transaction {
	out := make([]models.Transaction, len(descs))
	for i, d := range descs {
		out[i] = models.Transaction{Description: d}
	}
	return out
}

func TestBroker_DeliversToHouseholdOnly(t *testing.T) {
	b := NewBroker()
	mine, cancelMine := b.Subscribe("familia-a")
	defer cancelMine()
	other, cancelOther := b.Subscribe("familia-b")
	defer cancelOther()

	b.Publish("familia-a", snapshot("Aluguel"))

	got := <-mine
	assert.Equal(t, "Aluguel", got[0].Description)
	select {
	case <-other:
		t.Fatal("other household must not receive the snapshot")
	default:
	}
}

func TestBroker_SlowSubscriberKeepsNewest(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe("familia-a")
	defer cancel()

	b.Publish("familia-a", snapshot("one"))
	b.Publish("familia-a", snapshot("one", "two"))
	b.Publish("familia-a", snapshot("one", "two", "three"))

	got := <-ch
	assert.Len(t, got, 3)
	select {
	case <-ch:
		t.Fatal("expected a single pending snapshot")
	default:
	}
}

func TestBroker_CancelClosesChannel(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe("familia-a")
	require.Equal(t, 1, b.Subscribers("familia-a"))

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, b.Subscribers("familia-a"))

	b.Publish("familia-a", snapshot("after"))
}
