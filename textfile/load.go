package textfile

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/guiguan/caster"
	"github.com/npillmayer/sumtree/text"
)

// Some constants for fragment size defaults
const (
	twoKb     = 2048
	sixKb     = 6144
	tenKb     = 10240
	hundredKb = 1024000
	oneMb     = 1048576
)

// Fragment is one contiguous span of a file's content, as published to
// subscribers during an asynchronous load. Fragments arrive in file
// order and carry valid UTF-8; Pos is the byte offset of Content within
// the file.
type Fragment struct {
	Pos     int64
	Content string
}

// textFile represents an OS file which will be loaded as a text.
type textFile struct {
	path string
	info os.FileInfo
	file *os.File
}

// Load reads a file, which must be a regular UTF-8 text file, and
// returns its content as a text. Clients may recommend a fragment
// length for the reading, or pass 0 to let Load pick a sensible default
// depending on the file's size.
func Load(name string, fragSize int64) (text.Text, error) {
	loading, err := LoadAsync(name, fragSize)
	if err != nil {
		return text.Text{}, err
	}
	return loading.Wait()
}

// LoadAsync opens a file and starts loading its content in the
// background. Opening and checking the file happens before LoadAsync
// returns; reading is done by a goroutine which publishes every loaded
// fragment to subscribers (see Loading.Fragments) and finally seals the
// text (see Loading.Wait).
func LoadAsync(name string, fragSize int64) (*Loading, error) {
	tf, err := openFile(name)
	if err != nil {
		return nil, err
	}
	fragSize = fragSizeFor(tf.info.Size(), fragSize)
	tracer().Debugf("loading %s with fragment size %d", name, fragSize)
	loading := &Loading{
		cast:     caster.New(nil),
		done:     make(chan struct{}),
		tf:       tf,
		fragSize: fragSize,
	}
	return loading, nil
}

// openFile opens an OS file and collects some useful information on it,
// checking for error conditions.
func openFile(name string) (*textFile, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	} else if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("textfile: %s is not a regular file", name)
	}
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return &textFile{path: name, info: fi, file: file}, nil
}

// fragSizeFor selects the fragment length for reading a file of the
// given size. A requested length within sensible bounds wins; otherwise
// small files are read in one or few pieces and large files in chunks
// of some Kb.
func fragSizeFor(size int64, requested int64) int64 {
	if requested > 0 && requested <= tenKb {
		return requested
	}
	switch {
	case size < 64:
		return max(size, 1)
	case size < 1024:
		return 64
	case size < tenKb:
		return 256
	case size < hundredKb:
		return 512
	case size < oneMb:
		return twoKb
	default:
		return sixKb
	}
}

// Loading is a handle on an asynchronous file load. Reading starts
// lazily with the first call to Fragments or Wait, so subscriptions set
// up before Wait are guaranteed to see every fragment.
type Loading struct {
	cast     *caster.Caster
	done     chan struct{}
	begin    sync.Once
	tf       *textFile
	fragSize int64
	text     text.Text
	err      error
}

// Fragments subscribes to the fragments of the load and starts the
// reading goroutine. Every message on the returned channel is a
// Fragment; the channel is closed when the load is finished.
// Subscribing after the load has finished fails with ok=false.
// Cancelling ctx ends the subscription.
func (loading *Loading) Fragments(ctx context.Context) (<-chan interface{}, bool) {
	ch, ok := loading.cast.Sub(ctx, 8)
	loading.start()
	return ch, ok
}

// Wait blocks until the load is finished and returns the complete text.
func (loading *Loading) Wait() (text.Text, error) {
	loading.start()
	<-loading.done
	return loading.text, loading.err
}

func (loading *Loading) start() {
	loading.begin.Do(func() {
		go loading.run(loading.tf, loading.fragSize)
	})
}

// run is the file loading goroutine. It reads the file fragment by
// fragment, holding back trailing bytes of a UTF-8 sequence split by a
// fragment boundary, publishes each completed fragment and finally
// builds the text.
func (loading *Loading) run(tf *textFile, fragSize int64) {
	defer close(loading.done)
	defer loading.cast.Close()
	defer tf.file.Close()
	builder := text.NewBuilder()
	buf := make([]byte, fragSize)
	var carry []byte
	var pos int64
	for {
		n, err := tf.file.Read(buf)
		if n > 0 {
			chunk := append(carry, buf[:n]...)
			cut := len(chunk) - partialRuneSuffix(chunk)
			carry = append([]byte(nil), chunk[cut:]...)
			if cut > 0 {
				if aerr := builder.AppendBytes(chunk[:cut]); aerr != nil {
					loading.err = fmt.Errorf("textfile: %s at offset %d: %w", tf.path, pos, aerr)
					return
				}
				loading.cast.Pub(Fragment{Pos: pos, Content: string(chunk[:cut])})
				pos += int64(cut)
			}
		}
		if err == io.EOF {
			break
		} else if err != nil {
			loading.err = fmt.Errorf("textfile: reading %s: %w", tf.path, err)
			return
		}
	}
	if len(carry) > 0 {
		loading.err = fmt.Errorf("textfile: %s at offset %d: %w", tf.path, pos, text.ErrInvalidUTF8)
		return
	}
	loading.text = builder.Text()
	tracer().Debugf("loaded %s, %d bytes", tf.path, loading.text.Len())
}

// partialRuneSuffix returns the number of trailing bytes of p which
// form an incomplete UTF-8 sequence, 0 if p ends on a rune boundary.
// Malformed trailing bytes count as complete; validation will reject
// them later.
func partialRuneSuffix(p []byte) int {
	i := len(p) - 1
	for i >= 0 && i > len(p)-utf8.UTFMax && !utf8.RuneStart(p[i]) {
		i--
	}
	if i < 0 || !utf8.RuneStart(p[i]) || utf8.FullRune(p[i:]) {
		return 0
	}
	return len(p) - i
}
