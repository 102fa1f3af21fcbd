package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ocfContainer is META-INF/container.xml, which points at the OPF package
// document.
type ocfContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// opfPackage is the subset of the OPF package document we need: the title,
// the manifest (id -> href) and the spine (reading order).
type opfPackage struct {
	Metadata struct {
		Title string `xml:"title"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID        string `xml:"id,attr"`
			Href      string `xml:"href,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// parseEPUB reads the OCF container, walks the spine in reading order, and
// extracts plain text from each content document.
func parseEPUB(data []byte) (*Book, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a valid EPUB archive: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	containerXML, err := readZipFile(files, "META-INF/container.xml")
	if err != nil {
		return nil, err
	}
	var container ocfContainer
	if err := xml.Unmarshal(containerXML, &container); err != nil {
		return nil, fmt.Errorf("invalid container.xml: %w", err)
	}
	if len(container.Rootfiles) == 0 {
		return nil, fmt.Errorf("container.xml declares no rootfile")
	}

	opfPath := container.Rootfiles[0].FullPath
	opfXML, err := readZipFile(files, opfPath)
	if err != nil {
		return nil, err
	}
	var pkg opfPackage
	if err := xml.Unmarshal(opfXML, &pkg); err != nil {
		return nil, fmt.Errorf("invalid package document: %w", err)
	}

	hrefByID := make(map[string]string, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		hrefByID[item.ID] = item.Href
	}

	opfDir := path.Dir(opfPath)
	book := &Book{Title: strings.TrimSpace(pkg.Metadata.Title)}
	if book.Title == "" {
		book.Title = "Unknown Title"
	}

	for _, ref := range pkg.Spine.ItemRefs {
		href, ok := hrefByID[ref.IDRef]
		if !ok {
			continue
		}
		docPath := href
		if opfDir != "." {
			docPath = path.Join(opfDir, href)
		}
		content, err := readZipFile(files, docPath)
		if err != nil {
			continue
		}

		chapter, ok := chapterFromDocument(content, len(book.Chapters)+1)
		if !ok {
			continue
		}
		book.Chapters = append(book.Chapters, chapter)
	}

	if len(book.Chapters) == 0 {
		return nil, fmt.Errorf("no readable chapters found in EPUB")
	}
	return book, nil
}

// chapterFromDocument extracts text and a title from one spine document.
// Documents shorter than the content threshold (navigation, metadata pages)
// are skipped.
func chapterFromDocument(htmlContent []byte, ordinal int) (Chapter, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlContent))
	if err != nil {
		return Chapter{}, false
	}

	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(doc.Text(), " "))
	if len(text) < minChapterChars {
		return Chapter{}, false
	}

	title := headingTitle(doc)
	if title == "" {
		title = titleFromText(text)
	}
	if title == "" {
		title = fmt.Sprintf("Chapter %d", ordinal)
	}

	return Chapter{Title: title, Content: text}, true
}

// headingTitle returns the first plausible h1/h2/h3 heading.
func headingTitle(doc *goquery.Document) string {
	for _, tag := range []string{"h1", "h2", "h3"} {
		heading := strings.TrimSpace(doc.Find(tag).First().Text())
		if heading != "" && len(heading) < 100 {
			return whitespaceRe.ReplaceAllString(heading, " ")
		}
	}
	return ""
}

// titleFromText looks for a "Chapter N" or numbered-heading pattern near the
// start of the text.
func titleFromText(text string) string {
	words := strings.Fields(text)
	if len(words) > 20 {
		words = words[:20]
	}
	head := strings.Join(words, " ")

	if m := chapterHeadingRe.FindString(head); m != "" {
		return strings.TrimSpace(m)
	}
	return ""
}

var chapterHeadingRe = regexp.MustCompile(`(?i)^chapter\s+\d+[^.]{0,40}`)

func readZipFile(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("EPUB missing %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
