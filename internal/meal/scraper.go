package meal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Scraper imports a published menu page whose tables use the CSV column order.
type Scraper struct {
	httpClient *http.Client
}

// NewScraper creates a new Scraper instance.
func NewScraper() *Scraper {
	return &Scraper{httpClient: &http.Client{Timeout: 15 * time.Second}}
}

// ScrapeURL fetches the page and extracts every meal row found in its tables.
func (s *Scraper) ScrapeURL(ctx context.Context, url string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}
	return ParseHTML(resp.Body)
}

// ParseHTML extracts meal rows from the tables of an HTML document.
// Header rows, short rows and rows outside tables are ignored.
func ParseHTML(r io.Reader) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, nav, footer, iframe").Remove()

	var records []Record
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		var fields []string
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			fields = append(fields, cell.Text())
		})
		if isHeaderRow(fields) {
			return
		}
		if rec, ok := recordFromFields(fields); ok {
			records = append(records, rec)
		}
	})

	if len(records) == 0 {
		return nil, fmt.Errorf("no meal rows found")
	}
	return records, nil
}

func isHeaderRow(fields []string) bool {
	return len(fields) > 2 && strings.EqualFold(strings.TrimSpace(fields[2]), "dish_name")
}
