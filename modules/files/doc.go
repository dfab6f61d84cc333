// Package files mounts the recycle-bin service over HTTP.
//
// Routes:
//
//	POST   /files                      multipart upload, field "file"
//	GET    /files?store=active|recycle list entry names
//	GET    /files/{store}/{name}       download a file entry
//	DELETE /files/{name}               soft delete into the recycle store
//	POST   /recycle/{name}/restore     move back to the active store
//	DELETE /recycle                    purge the recycle store
//	GET    /sizes                      aggregate bytes per store
//	POST   /summary                    {"email": "..."}, email a summary
//	GET    /health, /ready             liveness and readiness
//
// Errors use the handler JSON envelope. A partial purge answers 500 with code
// "partial_purge" and the entries left behind in details.failed; a summary
// that could not be delivered answers 502.
package files
