package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain review", "A slow start, then unputdownable.", "A slow start, then unputdownable."},
		{"single paragraph", "<p>Loved the worldbuilding</p>", "Loved the worldbuilding"},
		{"paragraphs become lines", "<p>Part one drags.</p><p>Part two flies.</p>", "Part one drags.\nPart two flies."},
		{"inline formatting", "<p><strong>Must</strong> read, <em>really</em></p>", "Must read, really"},
		{"inline tag mid sentence", "The ending is <b>earned</b> and quiet", "The ending is earned and quiet"},
		{"line breaks", "Plot 4/5<br>Prose 5/5<br/>Pacing 3/5<br />Overall 4/5", "Plot 4/5\nProse 5/5\nPacing 3/5\nOverall 4/5"},
		{"attributes dropped", `<span style="color: red" class="x">Spoilers ahead</span>`, "Spoilers ahead"},
		{
			name:     "pasted rich text",
			input:    `<div><p style="font-weight: 600">Spice <em>must</em> flow!</p><p>Dense, but worth it.</p></div>`,
			expected: "Spice must flow!\nDense, but worth it.",
		},
		{"list items", "<ul><li>Great cast</li><li>Weak villain</li></ul>", "Great cast\nWeak villain"},
		{"heading", "<h2>Verdict</h2><p>Reread it.</p>", "Verdict\nReread it."},
		{"named entities", "Herbert &amp; son &mdash; a dynasty", "Herbert & son — a dynasty"},
		{"curly quotes", "&ldquo;Fear is the mind-killer&rdquo;", "“Fear is the mind-killer”"},
		{"numeric entities", "&#60;3 &#8220;quoted&#8221;", "<3 “quoted”"},
		{"nbsp", "Five&nbsp;stars", "Five stars"},
		{"angle bracket in text", "I <3 this book & its sequel", "I <3 this book & its sequel"},
		{"comparison in text", "book 1 < book 2", "book 1 < book 2"},
		{"script dropped", "Great<script>alert('x')</script> read", "Great read"},
		{"style dropped", "<style>p { color: red }</style>Calm prose", "Calm prose"},
		{"comment dropped", "Good<!-- draft note --> book", "Good book"},
		{"image", "Cover <img src='cover.jpg'/>was lovely", "Cover was lovely"},
		{"spaces collapsed", "Way    too   long", "Way too long"},
		{"blank lines dropped", "First thought.\n\n\nSecond thought.", "First thought.\nSecond thought."},
		{"only markup", "<p> </p><br>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, StripTags(tt.input))
		})
	}
}
