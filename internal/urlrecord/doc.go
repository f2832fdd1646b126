// Package urlrecord turns one input line into a tokenized URL record.
//
// Parse splits the URL and decodes its filename. Tokenize runs the filename
// through the splitter, the date extractor and the vocabulary rankers and
// returns a fully populated Record; records are values and are never
// modified after tokenization.
package urlrecord
