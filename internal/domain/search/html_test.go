package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripHTML(t *testing.T) {
	require.Equal(t, "Win a brand new car!",
		StripHTML(`<p>Win a <b>brand new</b> car!</p>`))

	require.Equal(t, "Closing soon",
		StripHTML(`<div>Closing<script>alert(1)</script> soon</div>`))

	require.Equal(t, "plain text", StripHTML("plain text"))
	require.Equal(t, "", StripHTML(""))
}
