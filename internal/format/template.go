package format

import (
	"bufio"
	"io"
	"strings"
	"text/template"
)

// execute runs tpl with data and copies its output to w, dropping the empty
// lines left by actions.
func execute(tpl *template.Template, w io.Writer, data interface{}) error {
	var (
		pr, pw = io.Pipe()
		scan   = bufio.NewScanner(pr)
		errch  = make(chan error, 1)
		werr   error
	)
	go func() {
		err := tpl.Execute(pw, data)
		pw.CloseWithError(err)
		errch <- err
	}()
	for scan.Scan() {
		line := scan.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, werr = io.WriteString(w, line+"\n"); werr != nil {
			break
		}
	}
	pr.Close()
	err := <-errch
	if werr != nil {
		return werr
	}
	if err := scan.Err(); err != nil {
		return err
	}
	return err
}
