// Package snapshot holds the §3 data model: the immutable containers the
// extractors emit, and the deterministic assembler (§4.16) that folds
// them into one Snapshot per parse. Nothing here mutates an entity after
// it's been appended to a Structure slice — the policy stage (package
// secpolicy) builds a *new* Structure when it needs to drop items.
package snapshot

// Encoding carries the byte-to-text boundary's detected label, set only
// when the document was sourced from bytes via ParseFile.
type Encoding struct {
	Detected   string  `json:"detected"`
	Confidence float64 `json:"confidence"`
}

// Security is the full security sub-record of spec §3.
type Security struct {
	ProfileUsed string                 `json:"profile_used"`
	Statistics  map[string]interface{} `json:"statistics"`
	Warnings    []Warning              `json:"warnings"`
	Summary     map[string]interface{} `json:"summary"`
}

// Warning is one ordered entry in security.warnings.
type Warning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Line    *int   `json:"line,omitempty"`
	Size    *int   `json:"size,omitempty"`
}

// Metadata is the document-wide facts and decisions block.
type Metadata struct {
	Encoding                 *Encoding              `json:"encoding,omitempty"`
	Frontmatter              map[string]interface{} `json:"frontmatter"`
	FrontmatterError         string                 `json:"frontmatter_error,omitempty"`
	HasFrontmatter           bool                   `json:"has_frontmatter"`
	Security                 Security               `json:"security"`
	EmbeddingBlocked         bool                   `json:"embedding_blocked"`
	EmbeddingBlockReason     string                 `json:"embedding_block_reason,omitempty"`
	Quarantined              bool                   `json:"quarantined"`
	QuarantineReasons        []string               `json:"quarantine_reasons,omitempty"`
	SecurityPoliciesApplied  []string               `json:"security_policies_applied"`
	SourcePath               string                 `json:"source_path,omitempty"`
}

// Content is the normalized substrate every offset indexes into.
type Content struct {
	Raw   string   `json:"raw"`
	Lines []string `json:"lines"`
}

// Section is a heading and the line range of its subtree.
type Section struct {
	Level     int    `json:"level"`
	Title     string `json:"title"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	StartChar int    `json:"start_char"`
	EndChar   int    `json:"end_char"`
	TokenIdx  int    `json:"token_idx"`
}

// Paragraph is a block of prose text.
type Paragraph struct {
	Text      string `json:"text"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	HasCode   bool   `json:"has_code"`
}

// ListItem is one entry of a List, possibly with nested Lists.
type ListItem struct {
	Text     string  `json:"text"`
	Checked  *bool   `json:"checked"`
	Children []*List `json:"children,omitempty"`
	Line     int     `json:"line"`
}

// List is a bullet, ordered, or task list.
type List struct {
	Type            string      `json:"type"`
	Items           []*ListItem `json:"items"`
	StartLine       int         `json:"start_line"`
	EndLine         int         `json:"end_line"`
	TaskItemsCount  int         `json:"task_items_count"`
}

// Table is a GFM table with alignment and raggedness metadata.
type Table struct {
	Headers      []string   `json:"headers"`
	Rows         [][]string `json:"rows"`
	Align        []string   `json:"align"`
	AlignMeta    *HeuristicFlag `json:"align_meta,omitempty"`
	IsRagged     bool       `json:"is_ragged"`
	IsRaggedMeta *HeuristicFlag `json:"is_ragged_meta,omitempty"`
	RowCount     int        `json:"row_count"`
	ColumnCount  int        `json:"column_count"`
	StartLine    int        `json:"start_line"`
	EndLine      int        `json:"end_line"`
}

// HeuristicFlag marks a value as inferred rather than asserted.
type HeuristicFlag struct {
	Heuristic bool `json:"heuristic"`
}

// CodeBlock is a fenced or indented code block.
type CodeBlock struct {
	Type      string `json:"type"`
	Language  string `json:"language"`
	Content   string `json:"content"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Link is one href-bearing element (text link, autolink, image wrapper).
type Link struct {
	URL      string  `json:"url"`
	Text     string  `json:"text"`
	Type     string  `json:"type"`
	Scheme   *string `json:"scheme"`
	Allowed  bool    `json:"allowed"`
	ImageID  *string `json:"image_id"`
	Line     int     `json:"-"`
}

// Image is one image reference.
type Image struct {
	Src       string `json:"src"`
	Alt       string `json:"alt"`
	Title     string `json:"title,omitempty"`
	ImageID   string `json:"image_id"`
	ImageKind string `json:"image_kind"`
	Format    string `json:"format"`
	SizeBytes *int   `json:"size_bytes,omitempty"`
	Line      int    `json:"-"`
}

// MathBlock is a display or fenced math block.
type MathBlock struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Content   string `json:"content"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// MathInline is an inline math span.
type MathInline struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Line    int    `json:"line"`
}

// Math groups block and inline math.
type Math struct {
	Blocks []MathBlock  `json:"blocks"`
	Inline []MathInline `json:"inline"`
}

// Footnote is one definition or reference.
type Footnote struct {
	Label      string `json:"label"`
	Content    string `json:"content"`
	ByteLength int    `json:"byte_length"`
	StartLine  int    `json:"start_line"`
	EndLine    int    `json:"end_line"`
}

// Footnotes groups definitions and references.
type Footnotes struct {
	Definitions []Footnote `json:"definitions"`
	References  []Footnote `json:"references"`
}

// Blockquote is a quoted block's flattened text.
type Blockquote struct {
	Text      string `json:"text"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// HTMLBlock is a raw HTML block-level element.
type HTMLBlock struct {
	Content   string `json:"content"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Inline    bool   `json:"inline"`
}

// HTMLInline is a raw inline HTML span.
type HTMLInline struct {
	Content string `json:"content"`
	Line    int    `json:"line"`
	Inline  bool   `json:"inline"`
}

// Structure is the core product: every extracted container, source-ordered.
type Structure struct {
	Sections    []Section    `json:"sections"`
	Paragraphs  []Paragraph  `json:"paragraphs"`
	Lists       []List       `json:"lists"`
	Tables      []Table      `json:"tables"`
	CodeBlocks  []CodeBlock  `json:"code_blocks"`
	Links       []Link       `json:"links"`
	Images      []Image      `json:"images"`
	Math        Math         `json:"math"`
	Footnotes   Footnotes    `json:"footnotes"`
	Blockquotes []Blockquote `json:"blockquotes"`
	HTMLBlocks  []HTMLBlock  `json:"html_blocks"`
	HTMLInline  []HTMLInline `json:"html_inline"`
}

// CodeRange is one flat entry of mappings.code_blocks.
type CodeRange struct {
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Language  string `json:"language"`
}

// Mappings is the line-to-type classification of §3.
type Mappings struct {
	LineToType map[int]string `json:"line_to_type"`
	ProseLines int            `json:"prose_lines"`
	CodeLines  int            `json:"code_lines"`
	CodeBlocks []CodeRange    `json:"code_blocks"`
}

// Snapshot is the top-level, deterministic parse result.
type Snapshot struct {
	Metadata  Metadata  `json:"metadata"`
	Content   Content   `json:"content"`
	Structure Structure `json:"structure"`
	Mappings  Mappings  `json:"mappings"`
}
