package driver

import "mini/interpreter-go/pkg/checker"

// Analyze runs Check followed by the static checker. Checker findings are
// returned as diagnostics; err is reserved for lex and parse failures.
func Analyze(src Source, opts Options) (*Result, []*Diagnostic, error) {
	res, err := Check(src, opts)
	if err != nil {
		return res, nil, err
	}
	found, err := checker.New().CheckProgram(res.Program)
	if err != nil {
		return res, nil, stageError(StageCheck, src, err)
	}
	diags := make([]*Diagnostic, 0, len(found))
	for _, d := range found {
		diags = append(diags, &Diagnostic{
			Stage:   StageCheck,
			Kind:    string(d.Kind),
			Message: d.Message,
			Source:  src.Name,
			Line:    d.Line(),
		})
	}
	return res, diags, nil
}
