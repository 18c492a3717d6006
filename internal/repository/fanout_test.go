package repository

import (
	"context"
	"errors"
	"testing"

	"TradePulse/internal/domain/models"
)

type recordingSink struct {
	seqs []uint64
	err  error
}

func (r *recordingSink) Publish(_ context.Context, c *models.CycleResult) error {
	r.seqs = append(r.seqs, c.Seq)
	return r.err
}
func (r *recordingSink) Close() error { return r.err }

func TestFanoutDeliversToAllSinks(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}
	f := NewFanoutSink(a, b)

	if err := f.Publish(context.Background(), &models.CycleResult{Seq: 7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.seqs) != 1 || len(b.seqs) != 1 {
		t.Fatalf("both sinks must receive the cycle: %v %v", a.seqs, b.seqs)
	}
}

func TestFanoutOneDeadSinkDoesNotStarveOthers(t *testing.T) {
	dead := &recordingSink{err: errors.New("broker gone")}
	live := &recordingSink{}
	f := NewFanoutSink(dead, live)

	err := f.Publish(context.Background(), &models.CycleResult{Seq: 3})
	if err == nil {
		t.Fatal("expected joined error from dead sink")
	}
	if len(live.seqs) != 1 {
		t.Fatal("live sink must still receive the cycle")
	}
}
