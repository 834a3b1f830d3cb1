package formats

import "fmt"

const (
	modelMagic   = "SAMD"
	modelVersion = 1
)

// EncodeModel serializes a model hierarchy.
func EncodeModel(model *Model) ([]byte, error) {
	if len(model.Roots) == 0 {
		return nil, ErrEmptyModelHierarchy
	}

	table := newAttachTable()
	for i, root := range model.Roots {
		if root == nil {
			return nil, fmt.Errorf("root %d: %w", i, ErrMissingModelNode)
		}
		table.collect(root)
	}
	if err := table.check(); err != nil {
		return nil, err
	}

	w := &writer{}
	w.magic(modelMagic, modelVersion)
	w.cstring(model.MetaData.Author)
	w.cstring(model.MetaData.Description)
	table.write(w)
	w.count(len(model.Roots))
	for _, root := range model.Roots {
		writeNode(w, root, table)
	}
	return w.bytes(), nil
}

// DecodeModel parses a model written by EncodeModel.
func DecodeModel(data []byte) (*Model, error) {
	r := newReader(data)
	r.magic(modelMagic, modelVersion)

	model := &Model{}
	model.MetaData.Author = r.cstring()
	model.MetaData.Description = r.cstring()

	attaches := readAttachTable(r)
	rootCount := r.count("roots")
	for i := 0; i < rootCount && r.err == nil; i++ {
		model.Roots = append(model.Roots, readNode(r, attaches, 0))
	}

	if r.err != nil {
		return nil, fmt.Errorf("decode model: %w", r.err)
	}
	if len(model.Roots) == 0 {
		return nil, ErrEmptyModelHierarchy
	}
	return model, nil
}
