package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/traitforge/disc-engine/internal/apperrors"
	"github.com/traitforge/disc-engine/internal/models"
	"github.com/traitforge/disc-engine/internal/scoring"
)

// DevelopmentItem is one row of the development-plan table.
type DevelopmentItem struct {
	Area    string `json:"area"`
	Action  string `json:"action"`
	Horizon string `json:"horizon"`
}

// Data is everything the renderer needs for one report.
type Data struct {
	UserName    string
	Scores      models.DiscScore
	Narrative   string
	Analysis    *models.Analysis
	Development []DevelopmentItem
	GeneratedAt time.Time
}

// Layout constants, in millimeters on A4.
const (
	pageMargin    = 15.0
	footerHeight  = 18.0
	radarRadius   = 35.0
	ringCount     = 5
	barMaxHeight  = 60.0
	barWidth      = 14.0
	barSpacing    = 10.0
	blockMinSpace = 30.0
)

// Renderer produces the downloadable PDF artifact.
type Renderer struct {
	brand string
}

// NewRenderer creates a renderer carrying the brand name for headers and
// the footer strip.
func NewRenderer(brand string) *Renderer {
	if brand == "" {
		brand = "DISC Engine"
	}
	return &Renderer{brand: brand}
}

// Filename builds the download name from a sanitized user name.
func Filename(userName string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, userName)

	for strings.Contains(sanitized, "--") {
		sanitized = strings.ReplaceAll(sanitized, "--", "-")
	}
	sanitized = strings.Trim(sanitized, "-")
	if sanitized == "" {
		sanitized = "assessment"
	}
	return fmt.Sprintf("disc-report-%s.pdf", sanitized)
}

// Render produces the multi-page PDF. Malformed input (out-of-bounds
// scores) and document failures surface as RenderError.
func (r *Renderer) Render(data Data) ([]byte, error) {
	if !data.Scores.InBounds() {
		return nil, &apperrors.RenderError{
			Err: fmt.Errorf("scores out of bounds: %+v", data.Scores),
		}
	}
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("DISC Assessment Report", true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, footerHeight+5)
	pdf.AliasNbPages("")

	// The header is re-emitted automatically on every page break.
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(0, 8, r.brand+" — DISC Assessment Report", "", 1, "L", false, 0, "")
		pdf.SetDrawColor(200, 200, 200)
		pdf.Line(pageMargin, pdf.GetY(), 210-pageMargin, pdf.GetY())
		pdf.Ln(4)
	})

	// The footer runs once per page after rendering completes; total page
	// count resolves through the {nb} alias at output time.
	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerHeight)
		pdf.SetFillColor(41, 76, 122)
		pdf.Rect(pageMargin, pdf.GetY(), 210-2*pageMargin, 1.5, "F")
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s    |    Page %d of {nb}", r.brand, pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	r.coverSection(pdf, data)
	r.chartSection(pdf, data.Scores)
	r.scoreTable(pdf, data.Scores)
	r.narrativeSection(pdf, data)
	r.developmentTable(pdf, data.Development)

	if pdf.Err() {
		return nil, &apperrors.RenderError{Err: pdf.Error()}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &apperrors.RenderError{Err: err}
	}
	return buf.Bytes(), nil
}

// ensureSpace inserts a page break when the remaining vertical space cannot
// hold the next block; the header re-emits via the header hook.
func ensureSpace(pdf *fpdf.Fpdf, needed float64) {
	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+needed > pageH-footerHeight-5 {
		pdf.AddPage()
	}
}

func (r *Renderer) coverSection(pdf *fpdf.Fpdf, data Data) {
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(41, 76, 122)
	pdf.CellFormat(0, 14, "Behavioral Profile", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(0, 8, data.UserName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, data.GeneratedAt.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	dominant := scoring.Dominant(data.Scores)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(0, 8,
		fmt.Sprintf("Dominant trait: %s (%s)", categoryLabel(dominant), dominant),
		"", 1, "L", false, 0, "")
	pdf.Ln(4)
}

// chartSection draws the radar and bar charts side by side.
func (r *Renderer) chartSection(pdf *fpdf.Fpdf, scores models.DiscScore) {
	ensureSpace(pdf, 2*radarRadius+20)
	top := pdf.GetY()

	center := Point{X: pageMargin + radarRadius + 12, Y: top + radarRadius + 8}
	r.drawRadar(pdf, center, scores)

	barOrigin := Point{X: 120, Y: top + 8 + barMaxHeight}
	r.drawBars(pdf, barOrigin, scores)

	pdf.SetY(top + 2*radarRadius + 20)
}

func (r *Renderer) drawRadar(pdf *fpdf.Fpdf, center Point, scores models.DiscScore) {
	// Background grid: five concentric rings over the four fixed axes.
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.2)
	for k := 1; k <= ringCount; k++ {
		pdf.Polygon(toPdfPoints(GridRing(center, radarRadius, k, ringCount)), "D")
	}

	// Axis spokes.
	for _, c := range models.Categories {
		tip := AxisPoint(center, radarRadius, c, 1)
		pdf.Line(center.X, center.Y, tip.X, tip.Y)
	}

	// Filled data polygon: triangles fanned from the center, then the
	// outline re-stroked on top for crisp edges.
	vertices := RadarVertices(center, radarRadius, scores)
	pdf.SetFillColor(111, 152, 203)
	pdf.SetAlpha(0.6, "Normal")
	for _, tri := range FanTriangles(center, vertices) {
		pdf.Polygon(toPdfPoints(tri[:]), "F")
	}
	pdf.SetAlpha(1.0, "Normal")

	pdf.SetDrawColor(41, 76, 122)
	pdf.SetLineWidth(0.5)
	pdf.Polygon(toPdfPoints(vertices), "D")

	// Axis labels just past each tip.
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(40, 40, 40)
	for _, c := range models.Categories {
		tip := AxisPoint(center, radarRadius+4, c, 1)
		pdf.Text(tip.X-1.5, tip.Y+1.5, string(c))
	}
}

func (r *Renderer) drawBars(pdf *fpdf.Fpdf, origin Point, scores models.DiscScore) {
	// Baseline.
	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(0.3)
	totalWidth := 4*barWidth + 3*barSpacing
	pdf.Line(origin.X, origin.Y, origin.X+totalWidth, origin.Y)

	pdf.SetFont("Helvetica", "B", 9)
	for _, bar := range BarLayout(origin, barMaxHeight, barWidth, barSpacing, scores) {
		pdf.SetFillColor(41, 76, 122)
		if bar.Height > 0 {
			pdf.Rect(bar.X, bar.Y, bar.Width, bar.Height, "F")
		}
		pdf.SetTextColor(40, 40, 40)
		pdf.Text(bar.X+bar.Width/2-1.5, origin.Y+5, string(bar.Category))
		pdf.Text(bar.X+bar.Width/2-3, bar.Y-1.5, fmt.Sprintf("%d", scores.Get(bar.Category)))
	}
}

func (r *Renderer) scoreTable(pdf *fpdf.Fpdf, scores models.DiscScore) {
	ensureSpace(pdf, blockMinSpace)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(41, 76, 122)
	pdf.CellFormat(0, 10, "Trait Scores", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 240, 247)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(70, 8, "Trait", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Score", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, c := range models.Categories {
		ensureSpace(pdf, 8)
		pdf.CellFormat(70, 8, fmt.Sprintf("%s (%s)", categoryLabel(c), c), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d / 100", scores.Get(c)), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)
}

func (r *Renderer) narrativeSection(pdf *fpdf.Fpdf, data Data) {
	if data.Narrative == "" && data.Analysis == nil {
		return
	}

	ensureSpace(pdf, blockMinSpace)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(41, 76, 122)
	pdf.CellFormat(0, 10, "Behavioral Narrative", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(40, 40, 40)

	if data.Narrative != "" {
		pdf.MultiCell(0, 5.5, data.Narrative, "", "L", false)
		pdf.Ln(3)
	}

	if a := data.Analysis; a != nil {
		if a.Summary != "" && a.Summary != data.Narrative {
			pdf.MultiCell(0, 5.5, a.Summary, "", "L", false)
			pdf.Ln(3)
		}
		r.bulletList(pdf, "Communication Style", a.Communication)
		r.bulletList(pdf, "Value to the Team", a.Value)
		r.bulletList(pdf, "Potential Blind Spots", a.Blindspots)
	}
}

func (r *Renderer) bulletList(pdf *fpdf.Fpdf, heading string, items []string) {
	if len(items) == 0 {
		return
	}

	ensureSpace(pdf, 14)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, heading, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		ensureSpace(pdf, 6)
		pdf.MultiCell(0, 5.5, "  -  "+item, "", "L", false)
	}
	pdf.Ln(2)
}

func (r *Renderer) developmentTable(pdf *fpdf.Fpdf, items []DevelopmentItem) {
	if len(items) == 0 {
		return
	}

	ensureSpace(pdf, blockMinSpace)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(41, 76, 122)
	pdf.CellFormat(0, 10, "Development Plan", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 240, 247)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(45, 8, "Area", "1", 0, "L", true, 0, "")
	pdf.CellFormat(95, 8, "Action", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Horizon", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		ensureSpace(pdf, 8)
		pdf.CellFormat(45, 8, item.Area, "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 8, item.Action, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, item.Horizon, "1", 1, "C", false, 0, "")
	}
}

func categoryLabel(c models.Category) string {
	switch c {
	case models.CategoryDominance:
		return "Dominance"
	case models.CategoryInfluence:
		return "Influence"
	case models.CategorySteadiness:
		return "Steadiness"
	case models.CategoryCompliance:
		return "Compliance"
	}
	return string(c)
}

func toPdfPoints(points []Point) []fpdf.PointType {
	converted := make([]fpdf.PointType, len(points))
	for i, p := range points {
		converted[i] = fpdf.PointType{X: p.X, Y: p.Y}
	}
	return converted
}
