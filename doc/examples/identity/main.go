// Package identity provides simple example code for documentation.
package identity

import (
	"io"
	"log"
	"net/http"

	"github.com/wirebind/wirebind"
)

// [snippet:endpoints]
var Lookup = wirebind.MustCompile[LookupRequest, LookupResponse](wirebind.Spec{
	Name:           "lookup",
	Description:    "Look up the user ID bound to a third-party address.",
	Method:         "GET",
	StablePath:     "/_matrix/identity/v2/lookup/{medium}/{address}",
	UnstablePath:   "/_matrix/identity/api/v1/lookup/{medium}/{address}",
	Added:          "1.0",
	Authentication: wirebind.AuthAccessToken,
})

var StoreInvite = wirebind.MustCompile[StoreInviteRequest, StoreInviteResponse](wirebind.Spec{
	Name:        "store_invite",
	Description: "Store a pending room invitation for a third-party address.",
	Method:      "POST",
	StablePath:  "/_matrix/identity/v2/store-invite",
	Added:       "1.0",
	RateLimited: true,
})

// [/snippet:endpoints]

func exampleClient() {
	// [snippet:client]
	httpReq, err := Lookup.Request.ToWire(LookupRequest{
		Medium:  "email",
		Address: "alice@example.org",
		Pepper:  "matrixrocks",
	}, Lookup.Meta().Template(wirebind.StabilityStable))
	if err != nil {
		log.Fatal(err)
	}

	httpRes, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		log.Fatal(err)
	}
	defer httpRes.Body.Close()

	res, err := Lookup.DecodeResponse(httpRes)
	if err != nil {
		log.Fatal(err) // *wirebind.APIError for non-2xx statuses
	}
	log.Printf("bound to %s", res.UserID)
	// [/snippet:client]
}

func exampleServer() {
	// [snippet:server]
	registry := wirebind.NewRegistry()
	registry.Register(Lookup)
	registry.Register(StoreInvite)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		req, err := Lookup.Request.FromWire(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = req.Address // resolve the binding here

		httpRes, err := Lookup.Response.ToWire(LookupResponse{
			UserID: "@alice:example.org",
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		for key, vals := range httpRes.Header {
			w.Header()[key] = vals
		}
		w.WriteHeader(httpRes.StatusCode)
		io.Copy(w, httpRes.Body)
	})
	// [/snippet:server]
}

// Keep imports used.
var (
	_ = exampleClient
	_ = exampleServer
)
