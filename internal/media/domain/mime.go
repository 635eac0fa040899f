package domain

// mimeRule lists the sniffed types accepted for a declared type.
type mimeRule struct {
	ext    string
	sniffs []string
}

var allowed = map[Kind]map[string]mimeRule{
	KindImage: {
		"image/jpeg": {ext: "jpg", sniffs: []string{"image/jpeg"}},
		"image/png":  {ext: "png", sniffs: []string{"image/png"}},
		"image/webp": {ext: "webp", sniffs: []string{"image/webp"}},
		"image/gif":  {ext: "gif", sniffs: []string{"image/gif"}},
	},
	KindDocument: {
		"application/pdf":    {ext: "pdf", sniffs: []string{"application/pdf"}},
		"application/msword": {ext: "doc", sniffs: []string{"application/octet-stream"}},
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {
			ext:    "docx",
			sniffs: []string{"application/zip"},
		},
	},
}

// ResolveType checks a declared content type against the kind's whitelist and
// the sniffed type of the first bytes. It returns the file extension to use.
func ResolveType(kind Kind, declared, sniffed string) (string, error) {
	rules, ok := allowed[kind]
	if !ok {
		return "", ErrInvalidKind
	}
	rule, ok := rules[declared]
	if !ok {
		return "", ErrUnsupportedType
	}
	for _, s := range rule.sniffs {
		if s == sniffed {
			return rule.ext, nil
		}
	}
	return "", ErrContentMismatch
}
