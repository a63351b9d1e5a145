package reader

import (
	"fmt"
)

// EmbeddedFile is one entry of the document's /EmbeddedFiles name tree.
type EmbeddedFile struct {
	Name        string // name tree key
	FileName    string // /UF, falling back to /F
	Description string
	Size        int64 // /Params /Size when present
	Data        []byte
}

// EmbeddedFiles returns the entries of the /EmbeddedFiles name tree in key
// order. Data holds the decoded file contents.
func (d *Document) EmbeddedFiles() ([]EmbeddedFile, error) {
	_, catalog, err := d.Catalog()
	if err != nil {
		return nil, err
	}
	names, err := d.resolveDict(catalog["Names"])
	if err != nil || names == nil {
		return nil, err
	}
	root, err := d.resolveDict(names["EmbeddedFiles"])
	if err != nil || root == nil {
		return nil, err
	}
	var out []EmbeddedFile
	err = d.walkNameTree(root, 0, func(key string, value Object) error {
		f, err := d.embeddedFile(key, value)
		if err != nil {
			return err
		}
		out = append(out, f)
		return nil
	})
	return out, err
}

func (d *Document) walkNameTree(node Dict, depth int, fn func(string, Object) error) error {
	if depth > 32 {
		return fmt.Errorf("reader: name tree too deep")
	}
	if arr, err := d.Resolve(node["Names"]); err == nil {
		pairs, _ := arr.(Array)
		for i := 0; i+1 < len(pairs); i += 2 {
			key, ok := pairs[i].(String)
			if !ok {
				return fmt.Errorf("reader: name tree key is %T", pairs[i])
			}
			if err := fn(TextString(key.Value), pairs[i+1]); err != nil {
				return err
			}
		}
	}
	kids, err := d.Resolve(node["Kids"])
	if err != nil {
		return err
	}
	arr, _ := kids.(Array)
	for _, kid := range arr {
		kd, err := d.resolveDict(kid)
		if err != nil {
			return err
		}
		if kd == nil {
			continue
		}
		if err := d.walkNameTree(kd, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) embeddedFile(key string, value Object) (EmbeddedFile, error) {
	f := EmbeddedFile{Name: key}
	spec, err := d.resolveDict(value)
	if err != nil {
		return f, err
	}
	if spec == nil {
		return f, fmt.Errorf("reader: file specification for %q is not a dictionary", key)
	}
	for _, k := range []Name{"UF", "F"} {
		if s, ok := spec[k].(String); ok {
			f.FileName = TextString(s.Value)
			break
		}
	}
	if s, ok := spec["Desc"].(String); ok {
		f.Description = TextString(s.Value)
	}
	ef, err := d.resolveDict(spec["EF"])
	if err != nil || ef == nil {
		return f, err
	}
	obj, err := d.Resolve(ef["F"])
	if err != nil {
		return f, err
	}
	stream, ok := obj.(Stream)
	if !ok {
		return f, fmt.Errorf("reader: embedded file %q has no stream", key)
	}
	if f.Data, err = Decode(stream); err != nil {
		return f, fmt.Errorf("reader: embedded file %q: %w", key, err)
	}
	if params, err := d.resolveDict(stream.Dict["Params"]); err == nil && params != nil {
		f.Size, _ = params.Int("Size")
	}
	return f, nil
}
