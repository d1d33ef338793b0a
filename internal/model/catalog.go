package model

// knownCatalog is the fixed set of remotely fetchable pretrained models.
// Sizes are approximate and, like the tier, used for display only.
var knownCatalog = []Descriptor{
	{
		Identifier: "yolov8n",
		Category:   CategoryPretrained,
		SourceURL:  "https://huggingface.co/Ultralytics/YOLOv8/resolve/main/yolov8n.onnx",
		SizeBytes:  12 * 1024 * 1024,
		Tier:       "nano - fastest, lowest accuracy",
	},
	{
		Identifier: "yolov8s",
		Category:   CategoryPretrained,
		SourceURL:  "https://huggingface.co/Ultralytics/YOLOv8/resolve/main/yolov8s.onnx",
		SizeBytes:  43 * 1024 * 1024,
		Tier:       "small - fast, good accuracy",
	},
	{
		Identifier: "yolov8m",
		Category:   CategoryPretrained,
		SourceURL:  "https://huggingface.co/Ultralytics/YOLOv8/resolve/main/yolov8m.onnx",
		SizeBytes:  99 * 1024 * 1024,
		Tier:       "medium - balanced",
	},
	{
		Identifier: "yolov8l",
		Category:   CategoryPretrained,
		SourceURL:  "https://huggingface.co/Ultralytics/YOLOv8/resolve/main/yolov8l.onnx",
		SizeBytes:  167 * 1024 * 1024,
		Tier:       "large - slow, high accuracy",
	},
	{
		Identifier: "yolov8x",
		Category:   CategoryPretrained,
		SourceURL:  "https://huggingface.co/Ultralytics/YOLOv8/resolve/main/yolov8x.onnx",
		SizeBytes:  260 * 1024 * 1024,
		Tier:       "extra large - slowest, highest accuracy",
	},
}

// KnownCatalog returns the remote catalog entries in their fixed order.
// Callers receive copies, the catalog itself is immutable.
func KnownCatalog() []Descriptor {
	catalog := make([]Descriptor, len(knownCatalog))
	copy(catalog, knownCatalog)
	return catalog
}

// catalogEntry looks up a catalog descriptor by identifier, accepting both
// the bare identifier and the identifier with the model file extension.
func catalogEntry(identifier string) (Descriptor, bool) {
	id := identifierFromPath(identifier)
	for _, entry := range knownCatalog {
		if entry.Identifier == id {
			return entry, true
		}
	}
	return Descriptor{}, false
}
