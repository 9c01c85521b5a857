package mcpserver

// PostFormatContract describes the post fields that LLM consumers must
// supply when drafting posts through the MCP tools.
const PostFormatContract = `# Raido Post Format Contract

Every post created through Raido MUST follow this structure.

## Fields

- **slug** (required): the post's stable address, used in URLs and as the
  primary key. Lowercase, kebab-case, Latin characters and digits only
  (e.g. ` + "`" + `my-first-post` + "`" + `). Must be unique; creating a post with an
  occupied slug fails. The literal value ` + "`" + `new` + "`" + ` is reserved and may not
  be used as a slug.
- **title** (required): human-readable display title. Any language.
- **markdown** (required): the article body in standard Markdown. Raido
  stores it raw and does not render it.

## Rules

1. All three fields are required and must be non-empty.
2. Slugs are permanent addresses: prefer not to change them after
   publishing, since old links stop resolving after a rename.
3. Keep Markdown self-contained; do not reference attachments or local
   files, Raido hosts none.
`
