// Package blocks loads the layout stage's page_*.json output: ordered
// text blocks with page, label and box metadata.
package blocks

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jeonghyeon-yu/doc-layout-pipeline/internal/hierarchy"
)

// Block is one layout text block as the upstream OCR stage emits it.
// Page comes from the enclosing page file, not the block itself.
type Block struct {
	Page      int    `json:"page_index"`
	Content   string `json:"block_content"`
	Label     string `json:"block_label"`
	InsideBox bool   `json:"inside_box"`
	BoxID     *int   `json:"box_id"`
}

// pageEnvelope is one page_*.json file: the page index plus its parsed
// block list.
type pageEnvelope struct {
	PageIndex int     `json:"page_index"`
	Blocks    []Block `json:"parsing_res_list"`
}

// labelNumber marks page-number artifacts; they carry no document text.
const labelNumber = "number"

var pageFileRe = regexp.MustCompile(`^page_(\d+)\.json$`)

// LoadOptions configures directory loading.
type LoadOptions struct {
	// Retries re-reads files that fail to parse, for directories still
	// being written by the layout stage. Zero disables retrying.
	Retries uint

	Logger *slog.Logger
}

// Load reads every page_*.json file under dir in numeric page order and
// returns the concatenated block stream, page-number artifacts removed.
func Load(dir string, opts LoadOptions) ([]Block, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read blocks directory: %w", err)
	}

	type pageFile struct {
		num  int
		path string
	}
	var files []pageFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		g := pageFileRe.FindStringSubmatch(e.Name())
		if g == nil {
			continue
		}
		num, _ := strconv.Atoi(g[1])
		files = append(files, pageFile{num: num, path: filepath.Join(dir, e.Name())})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no page_*.json files in %s", dir)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].num < files[j].num })

	var all []Block
	skipped := 0
	for _, f := range files {
		page, err := loadPage(f.path, opts.Retries)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(f.path), err)
		}
		for _, b := range page {
			if b.Label == labelNumber {
				skipped++
				continue
			}
			all = append(all, b)
		}
	}

	logger.Debug("loaded blocks",
		"dir", dir, "pages", len(files), "blocks", len(all), "page_numbers_skipped", skipped)
	return all, nil
}

// loadPage reads and validates one page file, retrying transient
// failures when retries is non-zero.
func loadPage(path string, retries uint) ([]Block, error) {
	read := func() ([]Block, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := validatePage(data); err != nil {
			return nil, err
		}
		var env pageEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("failed to decode page blocks: %w", err)
		}
		// The envelope's page index wins over anything a block carries.
		for i := range env.Blocks {
			env.Blocks[i].Page = env.PageIndex
		}
		return env.Blocks, nil
	}
	if retries == 0 {
		return read()
	}
	return retry.DoWithData(read,
		retry.Attempts(retries+1),
		retry.Delay(200*time.Millisecond),
	)
}

// Fragments converts blocks to the parser's input form.
func Fragments(bs []Block) []hierarchy.Fragment {
	out := make([]hierarchy.Fragment, len(bs))
	for i, b := range bs {
		out[i] = hierarchy.Fragment{
			Page:      b.Page,
			Text:      b.Content,
			InsideBox: b.InsideBox,
			BoxID:     b.BoxID,
		}
	}
	return out
}

// DeriveDocName guesses the document's own name from the block stream:
// the first fragment that names a 보통약관 is the policy title. Falls
// back to the blocks directory name.
func DeriveDocName(bs []Block, dir string) string {
	for _, b := range bs {
		text := strings.TrimSpace(b.Content)
		if strings.HasSuffix(text, "보통약관") {
			return strings.TrimSpace(strings.TrimSuffix(text, "보통약관"))
		}
	}
	base := filepath.Base(filepath.Clean(dir))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// MaxPage returns the highest page index in the stream, -1 when empty.
func MaxPage(bs []Block) int {
	max := -1
	for _, b := range bs {
		if b.Page > max {
			max = b.Page
		}
	}
	return max
}
