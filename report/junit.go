package report

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

type junitSuites struct {
	XMLName  xml.Name     `xml:"testsuites"`
	Name     string       `xml:"name,attr"`
	Tests    int          `xml:"tests,attr"`
	Failures int          `xml:"failures,attr"`
	Skipped  int          `xml:"skipped,attr"`
	Time     string       `xml:"time,attr"`
	Suites   []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name     string      `xml:"name,attr"`
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Skipped  int         `xml:"skipped,attr"`
	Time     string      `xml:"time,attr"`
	Cases    []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Skipped   *struct{}     `xml:"skipped,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

// JUnit renders the summary as JUnit XML, one test suite per feature.
func JUnit(name string, s Summary) ([]byte, error) {
	doc := junitSuites{
		Name:     name,
		Tests:    s.Total,
		Failures: s.Failed,
		Skipped:  s.Pending,
		Time:     seconds(s.Duration),
	}
	for _, f := range s.Features {
		suite := junitSuite{
			Name:     f.Name,
			Tests:    len(f.Scenarios),
			Failures: f.Failed,
			Skipped:  f.Pending,
			Time:     seconds(f.Duration),
		}
		for _, sc := range f.Scenarios {
			c := junitCase{
				Name:      sc.Name,
				Classname: f.Name,
				Time:      seconds(sc.Duration),
			}
			switch sc.Status {
			case StatusFailed:
				c.Failure = &junitFailure{Message: firstLine(sc.Error), Text: sc.Error}
			case StatusPending:
				c.Skipped = &struct{}{}
			}
			suite.Cases = append(suite.Cases, c)
		}
		doc.Suites = append(doc.Suites, suite)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode junit report: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// WriteJUnit writes the JUnit XML for s to path.
func WriteJUnit(path, name string, s Summary) error {
	data, err := JUnit(name, s)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
