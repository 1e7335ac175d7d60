package pipeline

import (
    "context"
    "strings"

    "readmegen/internal/assemble"
    "readmegen/internal/llm"
)

type Readme struct { LLM llm.Client }

// Run turns an assembled context payload into README markdown.
func (p *Readme) Run(ctx context.Context, payload assemble.Payload) (string, error) {
    prompt := `You are a senior technical writer.
From the repository context below, write a complete README.md for the project.

Sections, in this order, as markdown headings:
1. A top-level heading with the project name
2. Project Overview
3. Installation
4. Usage
5. Project Structure
6. Testing
7. License

Constraints:
- Use only facts present in the context. Never invent commands, version numbers, badges, or URLs.
- Omit a section entirely when the context holds nothing for it.
- Put shell commands in fenced code blocks.
- Return raw Markdown only: no surrounding code fence, no commentary before or after.`

    full := prompt + "\n\n[REPOSITORY CONTEXT]\n" + payload.Render()
    out, err := p.LLM.Generate(ctx, full); if err != nil { return "", err }
    out = llm.SanitizeCompletion(out)
    if strings.TrimSpace(out) == "" { return "", llm.ErrEmptyCompletion }
    return out, nil
}
