// Package google provides shared infrastructure for the Google Drive
// connector: an oauth2 token source built from installed-app credentials
// and a refresh token, a Drive service factory, error classification for
// common API failures (401, 403, 404, 429), and a token-bucket rate
// limiter kept below Google's per-user quota.
//
// The drive subpackage builds the actual CloudStore on top of this:
//
//	ts := google.NewRefreshTokenSource(ctx, clientID, clientSecret, refreshToken)
//	svc, err := google.NewDriveService(ctx, ts)
//
// The only scope required is https://www.googleapis.com/auth/drive.file,
// which grants access to files the app created or the user opened with it.
package google
