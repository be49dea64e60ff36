// Package review holds the operator-facing status line shown while a
// document is scanned and its contact fields are reviewed.
package review

// Score values shown next to the file name.
const (
	ScorePreview = "Aperçu"
	ScoreWorking = "Analyse"
	ScoreOK      = "OK"
	ScoreError   = "Erreur"
)

const (
	placeholder   = "—"
	progressStart = 20
	progressRead  = 40
	progressScan  = 70
	progressDone  = 100
)

// Status is the status bar state.
type Status struct {
	Message  string `json:"message"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	Score    string `json:"score"`
	Progress int    `json:"progress"`
}

// Idle is the state before any document is loaded.
func Idle() Status {
	return Status{
		Message:  "Aucun fichier importé. Aperçu affiché.",
		FileName: placeholder,
		FileType: placeholder,
		Score:    ScorePreview,
	}
}

// Started is shown as soon as a file is picked.
func Started(fileName, fileType string) Status {
	return Status{
		Message:  "Analyse en cours...",
		FileName: orPlaceholder(fileName),
		FileType: orPlaceholder(fileType),
		Score:    ScoreWorking,
		Progress: progressStart,
	}
}

// Reading is shown while text is loaded from the document.
func Reading(s Status) Status {
	s.Score = ScoreWorking
	s.Progress = progressRead
	switch s.FileType {
	case "PDF":
		s.Message = "Lecture du PDF..."
	default:
		s.Message = "Lecture du document Word..."
	}
	return s
}

// Extracting is shown while contact fields are isolated.
func Extracting(s Status) Status {
	s.Message = "Extraction des coordonnées..."
	s.Score = ScoreWorking
	s.Progress = progressScan
	return s
}

// Done is shown once the fields are ready for review.
func Done(s Status) Status {
	s.Message = "Analyse terminée. Vérifiez les champs ci-dessous."
	s.Score = ScoreOK
	s.Progress = progressDone
	return s
}

// Unsupported is shown for files other than PDF or DOCX.
func Unsupported(s Status) Status {
	s.Message = "Format non supporté."
	s.Score = ScoreError
	s.Progress = 0
	return s
}

// Failed is shown when a supported file could not be read.
func Failed(s Status) Status {
	s.Message = "Impossible d'analyser le fichier. Réessayez."
	s.Score = ScoreError
	s.Progress = 0
	return s
}

// Copied is shown after the fields were placed on the clipboard.
func Copied(s Status) Status {
	s.Message = "Coordonnées copiées dans le presse-papiers."
	s.Score = ScoreOK
	return s
}

// CopyFailed is shown when the clipboard could not be written.
func CopyFailed(s Status) Status {
	s.Message = "Impossible de copier. Essayez manuellement."
	s.Score = ScoreError
	return s
}

// Exported is shown after the workbook was written to path.
func Exported(s Status, path string) Status {
	s.Message = "Fichier exporté : " + path
	s.Score = ScoreOK
	return s
}

// ExportFailed is shown when the workbook could not be written.
func ExportFailed(s Status) Status {
	s.Message = "Impossible d'exporter le fichier."
	s.Score = ScoreError
	return s
}

// Confirmed is shown once the reviewed fields were recorded.
func Confirmed(s Status) Status {
	s.Message = "Coordonnées enregistrées."
	s.Score = ScoreOK
	return s
}

func orPlaceholder(v string) string {
	if v == "" {
		return placeholder
	}
	return v
}
