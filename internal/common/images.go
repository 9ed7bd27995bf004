package common

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/nfnt/resize"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/storage"
	"github.com/rafflehub/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

type Size struct {
	W int
	H int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

var (
	CompetitionImageSizes = []Size{
		{W: 512, H: 512},
		{W: 128, H: 128},
		{W: 32, H: 32},
	}
)

// ProcessImage reads the uploaded image under key, scales it to every entry
// of CompetitionImageSizes and uploads the copies. The responses follow the
// order of CompetitionImageSizes.
func ProcessImage(ctx context.Context, fileStorage storage.Storage, key string) ([]*storage.UploadResponse, error) {
	req := xcontext.HTTPRequest(ctx)
	if err := req.ParseMultipartForm(xcontext.Configs(ctx).File.MaxSize); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	file, header, err := req.FormFile(key)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Error retrieving the File")
	}
	defer file.Close()

	mime := header.Header.Get("Content-Type")
	img, err := decodeImg(mime, file)
	if err != nil {
		return nil, err
	}

	objs := make([]*storage.UploadObject, len(CompetitionImageSizes))
	eg, _ := errgroup.WithContext(ctx)
	for i, size := range CompetitionImageSizes {
		i, size := i, size
		eg.Go(func() error {
			resized := resize.Resize(uint(size.W), uint(size.H), img, resize.Lanczos2)
			b, err := encodeImg(mime, resized)
			if err != nil {
				return err
			}

			objs[i] = &storage.UploadObject{
				Bucket:   string(entity.Image),
				Prefix:   "competitions",
				FileName: fmt.Sprintf("%s-%s", size, header.Filename),
				Mime:     mime,
				Data:     b,
			}

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encode image: %v", err)
		return nil, errorx.Unknown
	}

	uresp, err := fileStorage.BulkUpload(ctx, objs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload image: %v", err)
		return nil, errorx.Unknown
	}

	return uresp, nil
}

func decodeImg(mime string, data io.Reader) (img image.Image, err error) {
	switch mime {
	case "image/jpeg":
		img, err = jpeg.Decode(data)
	case "image/png", "application/octet-stream":
		img, err = png.Decode(data)
	case "image/gif":
		img, err = gif.Decode(data)
	default:
		return nil, fmt.Errorf("We just accept jpeg, gif or png")
	}
	return img, err
}

func encodeImg(mime string, img image.Image) (b []byte, err error) {
	buf := new(bytes.Buffer)

	switch mime {
	case "image/jpeg":
		err = jpeg.Encode(buf, img, nil)
	case "image/png", "application/octet-stream":
		err = png.Encode(buf, img)
	case "image/gif":
		err = gif.Encode(buf, img, nil)
	default:
		return nil, fmt.Errorf("We just accept jpeg, gif or png")
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), err
}
