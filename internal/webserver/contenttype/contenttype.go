// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package contenttype holds the closed MIME-type lookup table and the
// inline HTML error-page bodies used by the request handler, per
// spec.md §4.7.
package contenttype

import "strings"

var suffixToMIME = map[string]string{
	"html": "text/html",
	"htm":  "text/html",
	"css":  "text/css",
	"js":   "application/javascript",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"json": "application/json",
	"xml":  "application/xml",
	"ico":  "image/x-icon",
	"svg":  "image/svg+xml",
	"mp3":  "audio/mpeg",
	"mp4":  "video/mp4",
	"zip":  "application/zip",
	"gz":   "application/gzip",
	"bmp":  "image/bmp",
	"avi":  "video/x-msvideo",
	"tar":  "application/x-tar",
	"rar":  "application/vnd.rar",
	"7z":   "application/x-7z-compressed",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

const defaultMIME = "application/octet-stream"

// Get returns the MIME type for path's suffix, case-insensitive over
// ASCII letters. Unknown or missing suffixes yield application/octet-stream.
func Get(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 || i == len(path)-1 {
		return defaultMIME
	}
	suffix := strings.ToLower(path[i+1:])
	if mime, ok := suffixToMIME[suffix]; ok {
		return mime
	}
	return defaultMIME
}

var errorPages = map[int]string{
	400: `<html><head><title>400 Bad Request</title></head><body><h1>400 Bad Request</h1></body></html>`,
	403: `<html><head><title>403 Forbidden</title></head><body><h1>403 Forbidden</h1></body></html>`,
	404: `<html><head><title>404 Not Found</title></head><body><h1>404 Not Found</h1></body></html>`,
	405: `<html><head><title>405 Method Not Allowed</title></head><body><h1>405 Method Not Allowed</h1></body></html>`,
	500: `<html><head><title>500 Internal Server Error</title></head><body><h1>500 Internal Server Error</h1></body></html>`,
	502: `<html><head><title>502 Bad Gateway</title></head><body><h1>502 Bad Gateway</h1></body></html>`,
	503: `<html><head><title>503 Service Unavailable</title></head><body><h1>503 Service Unavailable</h1></body></html>`,
	504: `<html><head><title>504 Gateway Timeout</title></head><body><h1>504 Gateway Timeout</h1></body></html>`,
}

// ErrorPage returns the inline HTML body for code. Unrecognised codes
// return the 500 body.
func ErrorPage(code int) string {
	if body, ok := errorPages[code]; ok {
		return body
	}
	return errorPages[500]
}
