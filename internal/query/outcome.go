package query

// ErrorPrefix starts the rendered text of every failed execution.
const ErrorPrefix = "Error executing query: "

// Outcome is the result of running one generated query. Exactly one of the
// two shapes is meaningful: Rows when Failed is false, ErrorMsg otherwise.
// Text collapses both into the single string the answer stage consumes.
type Outcome struct {
	Rows     string
	RowCount int
	ErrorMsg string
	Failed   bool
}

func Succeeded(rows string, rowCount int) Outcome {
	return Outcome{Rows: rows, RowCount: rowCount}
}

func Failed(err error) Outcome {
	message := "unknown error"
	if err != nil {
		message = err.Error()
	}
	return Outcome{ErrorMsg: message, Failed: true}
}

func (o Outcome) Text() string {
	if o.Failed {
		return ErrorPrefix + o.ErrorMsg
	}
	return o.Rows
}
