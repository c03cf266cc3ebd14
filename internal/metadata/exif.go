package metadata

import (
	"fmt"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// EXIFExtractor reads capture metadata from image files.
type EXIFExtractor struct{}

func (e *EXIFExtractor) Name() string { return "exif" }

func (e *EXIFExtractor) Extract(path string) (Fields, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode exif %s: %w", path, err)
	}

	fields := Fields{}
	if value, ok := tagString(x, exif.DateTimeOriginal); ok {
		fields.SetString(FieldEXIFDateTimeOriginal, value, "exif:DateTimeOriginal")
	} else if value, ok := tagString(x, exif.DateTime); ok {
		fields.SetString(FieldCreationDate, value, "exif:DateTime")
	}
	if value, ok := tagString(x, exif.FieldName("OffsetTimeOriginal")); ok {
		fields.SetString(FieldEXIFOffsetOriginal, value, "exif:OffsetTimeOriginal")
	}

	cameraMake, makeOK := tagString(x, exif.Make)
	cameraModel, modelOK := tagString(x, exif.Model)
	switch {
	case makeOK && modelOK:
		fields.SetString(FieldDevice, strings.TrimSpace(cameraMake+" "+cameraModel), "exif:Make+Model")
	case modelOK:
		fields.SetString(FieldDevice, cameraModel, "exif:Model")
	case makeOK:
		fields.SetString(FieldDevice, cameraMake, "exif:Make")
	}

	if width, ok := tagInt(x, exif.PixelXDimension); ok {
		if height, ok := tagInt(x, exif.PixelYDimension); ok {
			fields.SetString(FieldResolution, fmt.Sprintf("%dx%d", width, height), "exif:PixelDimensions")
		}
	}
	return fields, nil
}

func tagString(x *exif.Exif, name exif.FieldName) (string, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return "", false
	}
	value, err := tag.StringVal()
	if err != nil {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func tagInt(x *exif.Exif, name exif.FieldName) (int, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	value, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	return value, true
}
