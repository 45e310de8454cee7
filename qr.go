/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/skip2/go-qrcode"
)

// qrCache keeps rendered PNGs keyed by the URL they encode. Room URLs never
// change, so entries only leave by eviction.
type qrCache struct {
	size  int
	cache *lru.Cache[string, []byte]
}

func newQRCache(entries, size int) (*qrCache, error) {
	cache, err := lru.New[string, []byte](entries)
	if err != nil {
		return nil, err
	}

	return &qrCache{
		size:  size,
		cache: cache,
	}, nil
}

func (q *qrCache) png(url string) ([]byte, error) {
	if data, ok := q.cache.Get(url); ok {
		return data, nil
	}

	data, err := qrcode.Encode(url, qrcode.Medium, q.size)
	if err != nil {
		return nil, err
	}

	q.cache.Add(url, data)

	return data, nil
}

// externalURL derives the URL a phone should open to reach path on this
// server, respecting TLS and X-Forwarded-Proto.
func externalURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}

	return scheme + "://" + r.Host + path
}
