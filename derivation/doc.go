// Package derivation produces study artifacts from canonical note text.
//
// Three stages run over the same text and are independent of each other:
//
//   - Summarizer: abstractive summary, as a paragraph or as bullet lines
//   - KeyphraseExtractor: up to top_n one- or two-word tags ranked by
//     embedding similarity to the whole text
//   - QuestionGenerator: one question per leading sentence, with the
//     sentence itself as the answer
//
// Each stage checks the StageCache before calling its provider. Cache keys
// cover every parameter that changes the output (style, top_n,
// max_questions), so differently parameterized calls never share entries.
package derivation
