package domain

import (
	"context"
	"regexp"
	"unicode"

	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/xcontext"
)

func checkCompetitionHandle(ctx context.Context, handle string) error {
	if len(handle) < 4 {
		return errorx.New(errorx.BadRequest, "Handle too short (at least 4 characters)")
	}

	if len(handle) > 32 {
		return errorx.New(errorx.BadRequest, "Handle too long (at most 32 characters)")
	}

	ok, err := regexp.MatchString("^[a-z0-9_]*$", handle)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot execute regex pattern: %v", err)
		return errorx.Unknown
	}

	if !ok {
		return errorx.New(errorx.BadRequest, "Handle contains invalid characters")
	}

	return nil
}

func checkCompetitionTitle(title string) error {
	if len(title) < 4 {
		return errorx.New(errorx.BadRequest, "Title too short (at least 4 characters)")
	}

	return nil
}

func generateCompetitionHandle(title string) string {
	handle := []rune{}
	for _, c := range title {
		if isAsciiLetter(c) {
			handle = append(handle, unicode.ToLower(c))
		} else if c == ' ' {
			handle = append(handle, '_')
		}
	}

	return string(handle)
}

func isAsciiLetter(c rune) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') || c == '_'
}
