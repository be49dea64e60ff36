package review

import "testing"

func TestStatusProgression(t *testing.T) {
	s := Started("cv.pdf", "PDF")
	if s.Progress != 20 || s.Score != ScoreWorking {
		t.Fatalf("unexpected start: %+v", s)
	}
	s = Reading(s)
	if s.Message != "Lecture du PDF..." || s.Progress != 40 {
		t.Fatalf("unexpected reading: %+v", s)
	}
	s = Extracting(s)
	if s.Progress != 70 {
		t.Fatalf("unexpected extracting: %+v", s)
	}
	s = Done(s)
	if s.Score != ScoreOK || s.Progress != 100 || s.FileName != "cv.pdf" {
		t.Fatalf("unexpected done: %+v", s)
	}
	s = Copied(s)
	if s.Progress != 100 || s.Message != "Coordonnées copiées dans le presse-papiers." {
		t.Fatalf("copy must keep progress: %+v", s)
	}
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		name string
		got  Status
		msg  string
	}{
		{name: "unsupported", got: Unsupported(Started("cv.odt", "")), msg: "Format non supporté."},
		{name: "failed", got: Failed(Reading(Started("cv.docx", "DOCX"))), msg: "Impossible d'analyser le fichier. Réessayez."},
		{name: "copy failed", got: CopyFailed(Idle()), msg: "Impossible de copier. Essayez manuellement."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Score != ScoreError || tt.got.Message != tt.msg {
				t.Fatalf("unexpected status: %+v", tt.got)
			}
		})
	}
	if got := Started("cv.odt", "").FileType; got != "—" {
		t.Fatalf("expected placeholder file type, got %q", got)
	}
}

func TestIdle(t *testing.T) {
	s := Idle()
	if s.Score != ScorePreview || s.FileName != "—" || s.Progress != 0 {
		t.Fatalf("unexpected idle: %+v", s)
	}
}
