package app

import (
	"strings"

	"gopair/internal/fctx"
)

// askSystemPrompt instructs the model to reply in the filename-plus-fence
// convention the response parser recognizes.
const askSystemPrompt = `You are an expert AI pair programmer. You are given the contents of
source files and a request. Apply the request and output every file you
create or change, in full.

For each changed file output exactly:

path/to/filename
` + "```" + `
entire new file contents
` + "```" + `

Output the complete contents of each changed file, never an excerpt or a
partial patch. Do not wrap the filename in backticks or quotes. You may
include a short explanation outside the code blocks. If no file changes
are needed, reply with an explanation only.`

// buildUserTurn formats one user turn: the file-context blocks, then the
// request itself.
func buildUserTurn(request string, blocks []fctx.Block) string {
	if len(blocks) == 0 {
		return request
	}

	var b strings.Builder
	b.WriteString("Here are the current files:\n\n")
	b.WriteString(fctx.FormatBlocks(blocks))
	b.WriteString("Request: ")
	b.WriteString(request)
	return b.String()
}
