package fetch

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

type ProgressBar struct {
	Requests *progressbar.ProgressBar
}

func NewProgress(w io.Writer, max int64) *ProgressBar {
	requestb := progressbar.NewOptions64(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionShowIts(),
		progressbar.OptionSetDescription("requests"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetVisibility(true),
	)
	return &ProgressBar{
		Requests: requestb,
	}
}

func (b *ProgressBar) Incr(n int64) {
	b.Requests.Add64(n)
}

func (b *ProgressBar) Finish() {
	b.Requests.Finish()
}
