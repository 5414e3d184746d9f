// Package playback presents a movie's external video to the viewer. The
// catalog never proxies or transcodes video; a Surface only decides how the
// client is sent to the third-party resource.
package playback

import (
	"net/url"

	"github.com/gofiber/fiber/v3"
)

// Surface presents videoURL to the client.
type Surface interface {
	Present(c fiber.Ctx, videoURL, title string) error
}

// Redirect sends the client straight to the video with a 302.
type Redirect struct{}

func (Redirect) Present(c fiber.Ctx, videoURL, title string) error {
	u, err := url.Parse(videoURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Movie has no playable video URL")
	}
	c.Set("X-Movie-Title", url.QueryEscape(title))
	return c.Redirect().Status(fiber.StatusFound).To(u.String())
}
