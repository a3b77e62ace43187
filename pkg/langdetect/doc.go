// Package langdetect identifies the language of short texts with a
// character-level classifier.
//
// Quick start:
//
//	d, err := langdetect.New(
//	    langdetect.WithModelDir("models/shallow_model_v1"),
//	    langdetect.WithVocabularyPath("models/assets/labels/vocabulary.txt"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer d.Close()
//
//	res, _ := d.Detect(ctx, "Bonjour tout le monde")
//	fmt.Println(res.Lang, res.LangName) // fra French
//
// A Detector is safe for concurrent use. Loading the model is expensive, so
// create one and reuse it. Any Scorer can replace the bundled ONNX backend
// through WithScorer or WithRemoteScorer.
package langdetect
