// Package http exposes a vdisk Service over a REST API.
//
// All API routes are mounted under a base path, by default
// /FileAccessService/api/fileAccessor:
//
//	GET  fileList                      list the files of DefaultDisk
//	GET  fileList/{disk}               list the files of a disk
//	GET  file/{disk}/{path...}         download one file
//	POST newDisk/{disk}                register a disk, body is the top directory
//	GET  diskList                      list the registered disk names
//	GET  pause                         refuse downloads with 503
//	GET  resume                        accept downloads again
//	GET  stats/{disk}                  download counters of a disk
//
// File lists are JSON documents of the form {"disk": "...", "urls": [...]}
// where each URL can be fetched as is. Errors are JSON documents of the form
// {"error": "...", "message": "..."}.
//
// # Usage
//
//	handlerCfg := http.HandlerConfig{
//	    CORS: http.CORSConfig{Enabled: true, AllowedOrigins: []string{"*"}},
//	}
//	handler := http.NewHandler(&handlerCfg, service)
//	http.ListenAndServe(":8090", handler.Router())
//
// Every response carries Access-Control-Allow-Origin: * and an X-Request-Id
// header. A built-in index page, or the contents of HandlerConfig.StaticDir,
// is served under the index path (/FileAccessService by default).
package http
