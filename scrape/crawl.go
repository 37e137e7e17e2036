package scrape

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

var numericToken = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)

// crawl returns the text of the last element matching cssPath.
func crawl(ctx context.Context, client *http.Client, url string, cssPath string) (string, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	for k, v := range browserHeader() {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error requesting\n%w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d %s", ErrHTTPStatus, res.StatusCode, res.Status)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return "", fmt.Errorf("error creating document\n%w", err)
	}

	var v string
	doc.Find(cssPath).Each(func(i int, s *goquery.Selection) {
		v = s.Text()
	})

	return v, nil
}

// crawlPrice parses the first number in the element text. Thousands
// separators are dropped; currency marks and trailing change figures are
// ignored.
func crawlPrice(ctx context.Context, client *http.Client, url string, cssPath string) (decimal.NullDecimal, error) {

	text, err := crawl(ctx, client, url, cssPath)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	cleaned := strings.ReplaceAll(numericToken.FindString(text), ",", "")
	if cleaned == "" {
		return decimal.NullDecimal{}, fmt.Errorf("%w: nothing numeric in %q", ErrNoData, truncate(text, 40))
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
