// Package swift uploads compiled assets to a Swift / Cloud Files object store.
package swift

import (
	"context"
	"crypto/md5" //nolint:gosec // the object store uses MD5 ETags
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	fsadapter "go.trai.ch/precompile/internal/adapters/fs"
	"go.trai.ch/precompile/internal/core/domain"
	"go.trai.ch/precompile/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	headerAuthUser   = "X-Auth-User"
	headerAuthKey    = "X-Auth-Key"
	headerAuthToken  = "X-Auth-Token"
	headerStorageURL = "X-Storage-Url"
	headerETag       = "ETag"
)

var _ ports.RemoteSyncer = (*Syncer)(nil)

// Syncer implements ports.RemoteSyncer against the Swift v1.0 API.
type Syncer struct {
	client  *http.Client
	walker  *fsadapter.Walker
	logger  ports.Logger
	metrics ports.Metrics
}

// NewSyncer creates a Syncer. A nil client uses http.DefaultClient.
func NewSyncer(client *http.Client, walker *fsadapter.Walker, logger ports.Logger, metrics ports.Metrics) *Syncer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Syncer{
		client:  client,
		walker:  walker,
		logger:  logger,
		metrics: metrics,
	}
}

// session is the result of the once-per-sync token exchange.
type session struct {
	storageURL string
	token      string
}

// Sync uploads every file under localDir that the public endpoint does not
// already serve. A failed upload is recorded in the report and does not stop
// the remaining files. Only a failed session exchange or an unreadable
// localDir return an error.
func (s *Syncer) Sync(ctx context.Context, localDir string, target domain.SyncTarget) (*domain.SyncReport, error) {
	target = target.WithDefaults()

	sess, err := s.authenticate(ctx, target)
	if err != nil {
		return nil, err
	}

	files, err := s.walker.RelFiles(localDir)
	if err != nil {
		return nil, err
	}

	report := &domain.SyncReport{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(target.Concurrency)
	for _, rel := range files {
		g.Go(func() error {
			result, err := s.syncFile(gctx, sess, target, localDir, rel)

			mu.Lock()
			defer mu.Unlock()
			switch result {
			case domain.UploadResultUploaded:
				report.Uploaded++
			case domain.UploadResultSkipped:
				report.Skipped++
			default:
				report.Failed++
				report.Errors = append(report.Errors, err)
				s.logger.Error(err)
			}
			if s.metrics != nil {
				s.metrics.ObserveUpload(result)
			}
			return nil
		})
	}
	_ = g.Wait()

	return report, nil
}

func (s *Syncer) authenticate(ctx context.Context, target domain.SyncTarget) (*session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.AuthURL, http.NoBody)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSyncAuth, err.Error()), "url", target.AuthURL)
	}
	req.Header.Set(headerAuthUser, target.Username)
	req.Header.Set(headerAuthKey, target.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSyncAuth, err.Error()), "url", target.AuthURL)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, zerr.With(zerr.Wrap(domain.ErrSyncAuth, resp.Status), "url", target.AuthURL)
	}

	sess := &session{
		storageURL: strings.TrimSuffix(resp.Header.Get(headerStorageURL), "/"),
		token:      resp.Header.Get(headerAuthToken),
	}
	if sess.storageURL == "" || sess.token == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrSyncAuth, "missing storage url or token"), "url", target.AuthURL)
	}
	return sess, nil
}

func (s *Syncer) syncFile(ctx context.Context, sess *session, target domain.SyncTarget, localDir, rel string) (string, error) {
	key := rel
	if target.KeyPrefix != "" {
		key = path.Join(target.KeyPrefix, rel)
	}
	file := filepath.Join(localDir, filepath.FromSlash(rel))

	sum, err := md5File(file)
	if err != nil {
		return domain.UploadResultFailed, zerr.With(zerr.Wrap(domain.ErrSyncTransfer, err.Error()), "key", key)
	}

	present, err := s.served(ctx, target, key, sum)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("Checking %s failed, uploading: %v", key, err))
	}
	if present {
		return domain.UploadResultSkipped, nil
	}

	s.logger.Info(fmt.Sprintf("Storing %s...", key))
	if err := s.upload(ctx, sess, target.Container, key, file, sum); err != nil {
		return domain.UploadResultFailed, err
	}
	return domain.UploadResultUploaded, nil
}

// served asks the public endpoint whether key is already served. A 404 or an
// ETag mismatch is a plain absence. Any other failure returns ErrSyncHead and
// the object is uploaded anyway.
func (s *Syncer) served(ctx context.Context, target domain.SyncTarget, key, sum string) (bool, error) {
	if target.Endpoint == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, target.HeadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, objectURL(target.Endpoint, key), http.NoBody)
	if err != nil {
		return false, zerr.With(zerr.Wrap(domain.ErrSyncHead, err.Error()), "key", key)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, zerr.With(zerr.Wrap(domain.ErrSyncHead, err.Error()), "key", key)
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return false, nil
	default:
		return false, zerr.With(zerr.Wrap(domain.ErrSyncHead, resp.Status), "key", key)
	}
	if target.VerifyETag {
		etag := strings.Trim(resp.Header.Get(headerETag), `"`)
		return strings.EqualFold(etag, sum), nil
	}
	return true, nil
}

func (s *Syncer) upload(ctx context.Context, sess *session, container, key, file, sum string) error {
	f, err := os.Open(file) //nolint:gosec // file comes from walking the output dir
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrSyncTransfer, err.Error()), "key", key)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrSyncTransfer, err.Error()), "key", key)
	}

	dest := objectURL(sess.storageURL, path.Join(container, key))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, dest, f)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrSyncTransfer, err.Error()), "key", key)
	}
	req.ContentLength = info.Size()
	req.Header.Set(headerETag, sum)
	req.Header.Set(headerAuthToken, sess.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrSyncTransfer, err.Error()), "key", key)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := zerr.With(zerr.Wrap(domain.ErrSyncTransfer, resp.Status), "key", key)
		return zerr.With(err, "status", resp.StatusCode)
	}
	return nil
}

func md5File(file string) (string, error) {
	f, err := os.Open(file) //nolint:gosec // file comes from walking the output dir
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := md5.New() //nolint:gosec // the object store uses MD5 ETags
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// objectURL joins base and a slash-separated key, escaping each key segment.
func objectURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.Join(segments, "/")
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
