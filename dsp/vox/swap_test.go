package vox_test

import (
	"testing"

	"github.com/cwbudde/vocalign/dsp/vox"
)

func TestSpectrumSwapPublishAndSnapshot(t *testing.T) {
	s := vox.NewSpectrumSwap(4)

	got := s.Snapshot(nil)
	if len(got) != 0 {
		t.Fatalf("expected empty snapshot before any publish, got %v", got)
	}

	s.Publish([]vox.SpectrumValue{{Frequency: 100, Gain: 1}})
	got = s.Snapshot(nil)
	if len(got) != 1 || got[0].Frequency != 100 {
		t.Fatalf("unexpected snapshot after publish: %+v", got)
	}

	s.Publish([]vox.SpectrumValue{{Frequency: 200, Gain: 2}, {Frequency: 300, Gain: 3}})
	got = s.Snapshot(got)
	if len(got) != 2 || got[0].Frequency != 200 || got[1].Frequency != 300 {
		t.Fatalf("unexpected snapshot after second publish: %+v", got)
	}
}

func TestSpectrumSwapConsumerNeverObservesTornWrite(t *testing.T) {
	s := vox.NewSpectrumSwap(2)

	for i := 0; i < 100; i++ {
		gain := float64(i)
		s.Publish([]vox.SpectrumValue{{Frequency: gain, Gain: gain}})

		snap := s.Snapshot(nil)
		if len(snap) != 1 {
			t.Fatalf("expected exactly one published value, got %d", len(snap))
		}
		if snap[0].Frequency != snap[0].Gain {
			t.Fatalf("torn read: frequency=%v gain=%v", snap[0].Frequency, snap[0].Gain)
		}
	}
}
