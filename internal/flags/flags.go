package flags

// Centralized definitions for CLI flags used across the application

const (
	// Directory flags select the target directory inside the bucket (required for uploads)
	Directory      = "directory"
	DirectoryShort = "d"

	// DirectoryMode flags select how date folders are synthesized under the directory
	DirectoryMode = "directory-mode"

	// Filename flags override the stored filename for single uploads
	Filename = "filename"

	// FilenameMode flags select whether a timestamp is appended to the stored filename
	FilenameMode = "filename-mode"

	// ContentType flags declare the payload MIME type, bypassing sniffing
	ContentType = "content-type"

	// Output flags select where fetched payloads are written
	Output      = "output"
	OutputShort = "o"

	// OutputDir flags select the directory fetched batch payloads are written into
	OutputDir = "output-dir"

	// Force flags are used to bypass interactive confirmation prompts before overwriting local files
	Force      = "force"
	ForceShort = "f"

	// Quiet flags suppress the interactive progress display for batch operations
	Quiet      = "quiet"
	QuietShort = "q"

	// Debug flags are used to enable verbose logging
	Debug = "debug"
)
