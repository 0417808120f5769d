// Package api exposes the pipeline over HTTP using chi.
//
// Routes:
//
//	POST /pipeline       upload (multipart "file" or raw body) -> {"note_id"}
//	POST /ocr            image upload -> {"text", "blocks"}
//	POST /asr            audio upload -> {"transcript"}
//	POST /summarise      {"text", "style"} -> {"summary"}
//	POST /qa             {"text", "max_questions"} -> {"cards"}
//	GET  /notes/{id}     note with blocks, cards and tags
//	GET  /health         {"ok": true}
//
// Client errors map to 400 with the reason, unknown notes to 404, and every
// other failure to 500 with a generic body.
package api
