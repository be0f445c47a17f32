package file

var StoreThenRecord = storeThenRecord
