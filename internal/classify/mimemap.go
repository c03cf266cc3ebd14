package classify

// mapping pairs a category with an optional subcategory.
type mapping struct {
	category    Category
	subcategory string
}

// mimeCategories is the closed mapping from detected MIME types to vault
// categories. Types absent from this table classify as other/0.0.
var mimeCategories = map[string]mapping{
	// Photos
	"image/jpeg":          {CategoryPhotos, ""},
	"image/png":           {CategoryPhotos, ""},
	"image/gif":           {CategoryPhotos, ""},
	"image/webp":          {CategoryPhotos, ""},
	"image/bmp":           {CategoryPhotos, ""},
	"image/tiff":          {CategoryPhotos, ""},
	"image/heic":          {CategoryPhotos, ""},
	"image/heif":          {CategoryPhotos, ""},
	"image/svg+xml":       {CategoryPhotos, "vector"},
	"image/x-canon-cr2":   {CategoryPhotos, "raw"},
	"image/x-canon-cr3":   {CategoryPhotos, "raw"},
	"image/x-nikon-nef":   {CategoryPhotos, "raw"},
	"image/x-sony-arw":    {CategoryPhotos, "raw"},
	"image/x-fuji-raf":    {CategoryPhotos, "raw"},
	"image/x-panasonic-rw2": {CategoryPhotos, "raw"},
	"image/x-adobe-dng":   {CategoryPhotos, "raw"},

	// Documents
	"application/pdf":    {CategoryDocuments, ""},
	"text/plain":         {CategoryDocuments, "text"},
	"text/markdown":      {CategoryDocuments, "text"},
	"text/csv":           {CategoryDocuments, "spreadsheets"},
	"application/msword": {CategoryDocuments, ""},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {CategoryDocuments, ""},
	"application/vnd.ms-excel": {CategoryDocuments, "spreadsheets"},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       {CategoryDocuments, "spreadsheets"},
	"application/vnd.ms-powerpoint":                                           {CategoryDocuments, "presentations"},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {CategoryDocuments, "presentations"},
	"application/rtf":  {CategoryDocuments, "text"},
	"application/epub+zip": {CategoryDocuments, "ebooks"},

	// Videos
	"video/mp4":        {CategoryVideos, ""},
	"video/quicktime":  {CategoryVideos, ""},
	"video/x-matroska": {CategoryVideos, ""},
	"video/x-msvideo":  {CategoryVideos, ""},
	"video/webm":       {CategoryVideos, ""},
	"video/mpeg":       {CategoryVideos, ""},

	// Audio
	"audio/mpeg":   {CategoryAudio, ""},
	"audio/mp4":    {CategoryAudio, ""},
	"audio/flac":   {CategoryAudio, "lossless"},
	"audio/x-flac": {CategoryAudio, "lossless"},
	"audio/wav":    {CategoryAudio, "lossless"},
	"audio/x-wav":  {CategoryAudio, "lossless"},
	"audio/ogg":    {CategoryAudio, ""},
	"audio/aac":    {CategoryAudio, ""},

	// Archives
	"application/zip":              {CategoryArchives, ""},
	"application/x-tar":            {CategoryArchives, ""},
	"application/gzip":             {CategoryArchives, ""},
	"application/x-bzip2":          {CategoryArchives, ""},
	"application/x-xz":             {CategoryArchives, ""},
	"application/x-7z-compressed":  {CategoryArchives, ""},
	"application/x-rar-compressed": {CategoryArchives, ""},
	"application/vnd.rar":          {CategoryArchives, ""},
}

// extensionTypes supplements the platform MIME database with types it
// commonly lacks (camera raw formats, matroska, flac).
var extensionTypes = map[string]string{
	".cr2":  "image/x-canon-cr2",
	".cr3":  "image/x-canon-cr3",
	".nef":  "image/x-nikon-nef",
	".arw":  "image/x-sony-arw",
	".raf":  "image/x-fuji-raf",
	".rw2":  "image/x-panasonic-rw2",
	".dng":  "image/x-adobe-dng",
	".heic": "image/heic",
	".mkv":  "video/x-matroska",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".7z":   "application/x-7z-compressed",
	".rar":  "application/vnd.rar",
	".md":   "text/markdown",
	".epub": "application/epub+zip",
}
