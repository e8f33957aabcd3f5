// Package services defines the [Catalog] interface for target streaming services and implements
// it for Pandora, YouTube Music and Spotify.
//
// # Catalog Interface
//
// Every target service exposes the same capability set, so the reconciliation engine never
// branches on which service it talks to. Services are looked up by name or alias through a
// [Registry].
//
// # Pandora Implementation
//
// [PandoraService] talks to Pandora's private JSON API. A HEAD request to the site root sets the
// csrftoken cookie, which is echoed in the X-CsrfToken header. Authentication uses an auth token
// directly or logs in with username and password. Responses are annotation maps (a list of ids plus
// an id keyed object of details) and are read with gjson.
//
// # YouTube Music Implementation
//
// [YouTubeService] communicates with the FastAPI proxy server (music/) wrapping ytmusicapi.
// The auth_file path is sent via X-Auth-File header on each request. Artist pages may list only
// a subset of albums; the full listing requires a second request with the page's browse params.
// The playable unit is the album's audio playlist, so items are appended one source playlist at a time.
//
// # Spotify Implementation
//
// [SpotifyService] wraps the zmb3 Web API client over an [oauth2] token. Albums are the playable
// unit; appending expands them to track ids in batches of 100.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrMissingCredentials] : no usable credentials supplied
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrUnsupportedService] : unknown service name
package services
