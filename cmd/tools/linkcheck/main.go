// linkcheck visits every opportunity's application link and reports the
// response status in a table. Dead links get fixed in the content sources,
// not at runtime.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/amara/scholarfind/internal/content"
)

func main() {
	contentFile := flag.String("content", "data/content.json", "path to the consolidated content index")
	delay := flag.Duration("delay", time.Second, "per-domain delay between requests")
	flag.Parse()

	index, err := content.LoadFile(*contentFile)
	if err != nil {
		log.Fatalf("Failed to load content index: %v", err)
	}

	opps := index.Opportunities()
	byURL := make(map[string][]string)
	for _, opp := range opps {
		if opp.ApplicationLink == "" {
			continue
		}
		byURL[opp.ApplicationLink] = append(byURL[opp.ApplicationLink], opp.Title)
	}

	status := make(map[string]string, len(byURL))

	c := colly.NewCollector(
		colly.UserAgent("scholarfind-linkcheck/1.0"),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(15 * time.Second)
	c.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      *delay,
	})

	c.OnResponse(func(r *colly.Response) {
		status[r.Request.URL.String()] = http.StatusText(r.StatusCode)
	})
	c.OnError(func(r *colly.Response, err error) {
		status[r.Request.URL.String()] = err.Error()
	})

	for url := range byURL {
		if err := c.Visit(url); err != nil {
			status[url] = err.Error()
		}
	}
	c.Wait()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Link", "Titles", "Result"})

	broken := 0
	for url, titles := range byURL {
		result := status[url]
		if result == "" {
			result = "no response"
		}
		if result != "OK" {
			broken++
		}
		t.AppendRow(table.Row{url, len(titles), result})
	}
	t.Render()

	log.Printf("Checked %d links, %d need attention", len(byURL), broken)
}
