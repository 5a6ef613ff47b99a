package document

// Type identifies the source format of a loaded document.
type Type string

const (
	TypeText     Type = "text"
	TypePDF      Type = "pdf"
	TypeDocx     Type = "docx"
	TypeMarkdown Type = "markdown"
)

// Document is a unit of ingestable text. Content is immutable once loaded;
// format-specific extraction happens before a Document is constructed.
type Document struct {
	Content string
	Source  string
	Title   string
	Type    Type
	Pages   int
}

// Chunk is a bounded substring of a parent document, tagged with its position
// among siblings and the position of its parent in the ingestion batch.
type Chunk struct {
	Content    string
	Source     string
	Title      string
	Type       Type
	ChunkIndex int
	DocIndex   int
}
