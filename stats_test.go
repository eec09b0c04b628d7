package main

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	p := makePicture(3, 1, []byte{120, 100, 110}, map[int]Chrominance{0: {200, 50}})
	m, err := BuildBlendMap(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := Summarize(m, p)
	if s.Targets != 2 || s.Covered != 2 || s.Unreached != 0 || s.Lengths[1] != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if math.Abs(s.MeanDistance-25) > 1e-9 || s.MaxDistance != 30 {
		t.Fatalf("mean %g max %g, want 25 and 30", s.MeanDistance, s.MaxDistance)
	}
}

func TestSummarize_Unreached(t *testing.T) {
	p := makePicture(2, 1, []byte{1, 2}, nil)
	s := Summarize(newBlendMap(2, 1), p)
	if s.Targets != 2 || s.Unreached != 2 || s.Covered != 0 || s.MeanDistance != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}
