package metrics

import (
	"testing"

	coremetrics "github.com/solhub/solarsched/core/metrics"
)

type recordSink struct {
	plans       int
	productions int
	items       int
}

func (r *recordSink) RecordPlanResult(coremetrics.PlanResult) error {
	r.plans++
	return nil
}

func (r *recordSink) RecordProduction(coremetrics.ProductionEvent) error {
	r.productions++
	return nil
}

func (r *recordSink) RecordScheduleItem(coremetrics.ScheduleItemEvent) error {
	r.items++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordPlanResult(coremetrics.PlanResult{}); err != nil {
		t.Fatalf("record plan: %v", err)
	}
	if err := m.RecordProduction(coremetrics.ProductionEvent{}); err != nil {
		t.Fatalf("record production: %v", err)
	}
	if err := m.RecordScheduleItem(coremetrics.ScheduleItemEvent{}); err != nil {
		t.Fatalf("record item: %v", err)
	}
	if s1.plans != 1 || s2.plans != 1 || s1.productions != 1 || s1.items != 1 {
		t.Fatalf("records not forwarded: %+v %+v", s1, s2)
	}
}

func TestMultiSinkSkipsNonRecorders(t *testing.T) {
	m := NewMultiSink(coremetrics.NopSink{})
	if err := m.RecordProduction(coremetrics.ProductionEvent{}); err != nil {
		t.Fatalf("nop sink should be skipped: %v", err)
	}
	if err := m.RecordScheduleItem(coremetrics.ScheduleItemEvent{}); err != nil {
		t.Fatalf("nop sink should be skipped: %v", err)
	}
}
