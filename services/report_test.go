package services

import (
	"bytes"
	"strings"
	"testing"

	"asset-grader/utils"
)

func TestRulesReportSummarize(t *testing.T) {
	corpus := append(knights(5),
		sparse("a1", "Audio/Music", 3),
		sparse("t1", "Tools", 3),
		sparse("t2", "Tools", 4),
		sparse("t3", "Tools", 5),
	)
	file := buildRules(t, corpus)

	r := NewRulesReport(utils.NewTestLogger(t), &bytes.Buffer{})
	s := r.Summarize(file)

	if s.RunID != file.RunID || s.CorpusSize != 9 || s.CategoryCount != 3 {
		t.Errorf("overview: run=%s corpus=%d categories=%d", s.RunID, s.CorpusSize, s.CategoryCount)
	}
	if s.ByConfidence["fallback"] != 1 || s.ByConfidence["medium"] != 1 || s.ByConfidence["low"] != 1 {
		t.Errorf("ByConfidence: got %v", s.ByConfidence)
	}
	if len(s.LargestCategories) != 2 || s.LargestCategories[0].Category != "3D/Characters" {
		t.Errorf("LargestCategories: got %+v", s.LargestCategories)
	}
}

func TestRulesReportEmpty(t *testing.T) {
	r := NewRulesReport(utils.NewTestLogger(t), &bytes.Buffer{})
	s := r.Summarize(nil)
	if s.CategoryCount != 0 || len(s.LargestCategories) != 0 {
		t.Errorf("nil file: got %+v", s)
	}
}

func TestRulesReportPrint(t *testing.T) {
	var buf bytes.Buffer
	r := NewRulesReport(utils.NewTestLogger(t), &buf)

	file := buildRules(t, append(knights(5), sparse("a1", "Audio/Music", 3)))
	r.Print(r.Summarize(file))
	r.PrintGrade(NewGrader(nil).Grade(sparse("x", "", 0), "", nil, testNow))

	out := buf.String()
	for _, want := range []string{"LISTING QUALITY RULES", "3D/Characters", "On Fallback Rules", "Audio/Music", "fallback rules", "No images provided"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
