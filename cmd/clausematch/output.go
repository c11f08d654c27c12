package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/poiesic/clausematch"
	"github.com/poiesic/clausematch/core"
	"github.com/poiesic/clausematch/ingest"
	"github.com/poiesic/clausematch/matching"
	"github.com/urfave/cli/v2"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// printer writes command results as text or JSON.
type printer struct {
	out    io.Writer
	asJSON bool
}

func newPrinter(c *cli.Context) *printer {
	return &printer{out: c.App.Writer, asJSON: c.Bool("json")}
}

func (p *printer) writeJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func (p *printer) stats(verb string, stats *ingest.Stats) error {
	if p.asJSON {
		return p.writeJSON(stats)
	}
	_, err := fmt.Fprintf(p.out, "%s %d documents (%d chunks, %d embedded)\n",
		verb, stats.Documents, stats.Chunks, stats.Embedded)
	return err
}

func (p *printer) documents(infos []*core.DocumentInfo) error {
	if p.asJSON {
		if infos == nil {
			infos = []*core.DocumentInfo{}
		}
		return p.writeJSON(infos)
	}
	if len(infos) == 0 {
		_, err := fmt.Fprintln(p.out, mutedStyle.Render("No documents stored"))
		return err
	}

	t := newTable("ID", "TITLE", "CHUNKS", "CHARACTERS", "DIMENSIONS", "UPDATED")
	for _, info := range infos {
		t.Row(info.ID, info.Title,
			strconv.Itoa(info.ChunkCount),
			strconv.Itoa(info.TotalCharacters),
			strconv.Itoa(info.Dimensions),
			info.UpdatedAt.Local().Format(time.DateTime))
	}
	_, err := fmt.Fprintln(p.out, t.String())
	return err
}

func (p *printer) deleted(ids []string) error {
	if p.asJSON {
		return p.writeJSON(map[string][]string{"deleted": ids})
	}
	_, err := fmt.Fprintf(p.out, "Deleted %s\n", strings.Join(ids, ", "))
	return err
}

func (p *printer) comparison(idA, idB string, cmp *clausematch.Comparison) error {
	if p.asJSON {
		return p.writeJSON(cmp)
	}

	var b strings.Builder
	fmt.Fprintln(&b, titleStyle.Render(fmt.Sprintf("%s vs %s", idA, idB)))

	ev := cmp.Evidence
	verdict := "insufficient"
	if ev.Sufficient {
		verdict = "sufficient"
	}
	fmt.Fprintf(&b, "Evidence: %d matched characters, %d required (%s)\n",
		ev.MatchedCharacters, ev.RequiredCharacters, verdict)

	if cmp.Matches == nil {
		fmt.Fprintln(&b, mutedStyle.Render("No reportable similarity"))
		_, err := io.WriteString(p.out, b.String())
		return err
	}

	cov := cmp.Coverage
	fmt.Fprintf(&b, "Coverage: %s %.1f%% (pages %s), %s %.1f%% (pages %s)\n",
		idA, cov.CoverageA*100, strings.Join(cov.PagesA, ", "),
		idB, cov.CoverageB*100, strings.Join(cov.PagesB, ", "))
	fmt.Fprintf(&b, "Scores: mean %.3f, max %.3f\n", cov.MeanScore, cov.MaxScore)

	t := newTable("CHUNK A", "PAGE A", "CHUNK B", "PAGE B", "COSINE", "JACCARD")
	for _, m := range cmp.Matches {
		jaccard := "-"
		if m.JaccardScore > 0 {
			jaccard = fmt.Sprintf("%.3f", m.JaccardScore)
		}
		t.Row(m.ChunkA.ID, strconv.Itoa(m.ChunkA.PageNumber),
			m.ChunkB.ID, strconv.Itoa(m.ChunkB.PageNumber),
			fmt.Sprintf("%.3f", m.Score), jaccard)
	}
	fmt.Fprintln(&b, t.String())

	_, err := io.WriteString(p.out, b.String())
	return err
}

// batchView is the JSON form of a BatchResult; error maps keyed by struct
// do not encode.
type batchView struct {
	Matches  []pairMatches      `json:"matches"`
	Rejected []matching.PairKey `json:"rejected"`
	Failed   []pairFailure      `json:"failed"`
}

type pairMatches struct {
	matching.PairKey
	Matches []core.ChunkMatch `json:"matches"`
}

type pairFailure struct {
	matching.PairKey
	Error string `json:"error"`
}

func newBatchView(result *matching.BatchResult) batchView {
	view := batchView{
		Matches:  []pairMatches{},
		Rejected: result.Rejected,
		Failed:   []pairFailure{},
	}
	if view.Rejected == nil {
		view.Rejected = []matching.PairKey{}
	}

	for _, source := range sortedKeys(result.Matches) {
		targets := result.Matches[source]
		for _, target := range sortedKeys(targets) {
			view.Matches = append(view.Matches, pairMatches{
				PairKey: matching.PairKey{SourceID: source, TargetID: target},
				Matches: targets[target],
			})
		}
	}
	for _, key := range sortedPairKeys(result.Failed) {
		view.Failed = append(view.Failed, pairFailure{PairKey: key, Error: result.Failed[key].Error()})
	}
	return view
}

func (p *printer) batch(result *matching.BatchResult) error {
	view := newBatchView(result)
	if p.asJSON {
		return p.writeJSON(view)
	}

	var b strings.Builder
	fmt.Fprintln(&b, titleStyle.Render(fmt.Sprintf("%d matched, %d rejected, %d failed",
		len(view.Matches), len(view.Rejected), len(view.Failed))))

	if len(view.Matches) > 0 {
		t := newTable("SOURCE", "TARGET", "MATCHES", "BEST")
		for _, pm := range view.Matches {
			t.Row(pm.SourceID, pm.TargetID, strconv.Itoa(len(pm.Matches)), fmt.Sprintf("%.3f", pm.Matches[0].Score))
		}
		fmt.Fprintln(&b, t.String())
	}
	for _, f := range view.Failed {
		fmt.Fprintf(&b, "failed %s/%s: %s\n", f.SourceID, f.TargetID, f.Error)
	}

	_, err := io.WriteString(p.out, b.String())
	return err
}

func (p *printer) searchResults(results []*core.SearchResult) error {
	if p.asJSON {
		if results == nil {
			results = []*core.SearchResult{}
		}
		return p.writeJSON(results)
	}
	if len(results) == 0 {
		_, err := fmt.Fprintln(p.out, mutedStyle.Render("No similar clauses found"))
		return err
	}

	t := newTable("DOCUMENT", "CHUNK", "PAGE", "SCORE", "VERBATIM", "TEXT")
	for _, r := range results {
		verbatim := ""
		if r.Verbatim {
			verbatim = "yes"
		}
		t.Row(r.DocumentID, r.Chunk.ID, strconv.Itoa(r.Chunk.PageNumber),
			fmt.Sprintf("%.3f", r.Score), verbatim, excerpt(r.Text, 60))
	}
	_, err := fmt.Fprintln(p.out, t.String())
	return err
}

// excerpt shortens text to at most n runes on one line.
func excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n-1]) + "…"
}
