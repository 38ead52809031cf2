package legacy

// ImportResult summarizes one import run
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

func (r *ImportResult) addError(err error) {
	r.Failed++
	if len(r.Errors) < maxReportedErrors {
		r.Errors = append(r.Errors, err.Error())
	}
}

// maxReportedErrors caps the error list so a broken feed does not
// balloon the response
const maxReportedErrors = 20
